package dialog

import (
	"fmt"
	"html"
	"strconv"

	"github.com/glebk/sati-bot/internal/domain"
)

// CancelText typed in any step aborts the active flow.
const CancelText = "ยกเลิก"

// Callback actions. Payloads are "action" or "action:arg".
const (
	actionTag        = "tag"
	actionUseLast    = "use_last"
	actionCancel     = "cancel"
	actionDiss       = "diss"
	actionReact      = "react"
	actionBack       = "back"
	actionConfirm    = "confirm"
	actionMedDur     = "med_dur"
	actionMedCustom  = "med_custom"
	actionMedType    = "med_type"
	actionMedCancel  = "med_cancel"
	actionReflectNew = "ai_reflect_again"
	actionReflectSav = "ai_reflect_save"
	actionReflectEnd = "ai_reflect_close"
)

// MainMenu is the persistent reply keyboard.
var MainMenu = [][]string{
	{"/log", "/meditation", "/today"},
	{"/meds_today", "/export", "/undo"},
	{"/subscribe_daily", "/unsubscribe"},
}

const (
	helpText = "🧘‍♂️ <b>Sati App</b>\n\n" +
		"คำสั่ง:\n" +
		"• <b>/log</b> เริ่มบันทึก (แท็ก → เหตุการณ์ → คะแนน → ยืนยัน)\n" +
		"• <b>/meditation</b> บันทึกสมาธิ (เลือกระยะเวลา ประเภท หมายเหตุ)\n" +
		"• <b>/meds_today</b> หรือ <b>/med_summarize</b> สรุปสมาธิวันนี้\n" +
		"• <b>/today</b> สรุปวันนี้\n" +
		"• <b>/weekly</b> สรุป 7 วันย้อนหลัง\n" +
		"• <b>/monthly</b> สรุป 30 วันย้อนหลัง\n" +
		"• <b>/subscribe_daily</b> สมัครรับสรุปอัตโนมัติ %s\n" +
		"• <b>/unsubscribe</b> ยกเลิกสรุปอัตโนมัติ\n" +
		"• <b>/undo</b> ลบรายการล่าสุดของฉัน\n" +
		"• <b>/export</b> ส่งไฟล์ CSV ทั้งหมด\n" +
		"• <b>/export_meds</b> ส่งเฉพาะไฟล์บันทึกสมาธิ\n" +
		"• <b>/cancel</b> ยกเลิกการบันทึกที่ทำอยู่\n\n" +
		"<b>สเกล</b>\n" +
		"• ความไม่พอใจ: 1 = แทบไม่รบกวน | 10 = ไม่พอใจมาก\n" +
		"• ความรุนแรงของ React: 10 = สงบมาก | 1 = รุนแรง/ขาดสติ\n\n" +
		"หมายเหตุ: มีเมนูปุ่มลัดด้านล่างสำหรับเรียกคำสั่งที่พบบ่อย"

	commonCommands = "/log  /meditation  /today  /weekly  /monthly\n" +
		"/subscribe_daily  /unsubscribe  /undo  /export  /export_meds\n" +
		"พิมพ์ /help เพื่อดูรายละเอียดเพิ่มเติม"

	cancelledText  = "ยกเลิกการบันทึกแล้วครับ ✅"
	nothingToStop  = "ตอนนี้ไม่มีรายการที่กำลังบันทึกอยู่ครับ"
	staleButton    = "ปุ่มนี้หมดอายุแล้ว"
	invalidValue   = "ค่าที่ส่งมาผิด"
	useButtonsHint = "โปรดเลือกจากปุ่มด้านบน หรือพิมพ์ " + CancelText + " เพื่อยกเลิก"
	storageFailed  = "เกิดข้อผิดพลาดในการบันทึกข้อมูล โปรดลองใหม่ภายหลัง"
	summaryFailed  = "เกิดข้อผิดพลาดในการสรุปข้อมูล โปรดลองใหม่ภายหลัง"

	tagPrompt         = "🔖 <b>เลือกหมวดเหตุการณ์</b>\n(ช่วยวิเคราะห์ pattern ภายหลัง)"
	noLastEvent       = "ยังไม่มีเหตุการณ์เก่า — โปรดเลือกแท็ก"
	eventDescPrompt   = "พิมพ์เล่าเหตุการณ์ไม่พอใจแบบสั้น ๆ ได้เลยครับ"
	eventDescEmpty    = "โปรดพิมพ์เล่าเหตุการณ์สั้น ๆ หรือพิมพ์ " + CancelText
	dissScorePrompt   = "ให้คะแนน <b>ความไม่พอใจ</b> (1–10)\n1 = แทบไม่รบกวน | 10 = ไม่พอใจมาก"
	dissReasonPrompt  = "เหตุผลของความไม่พอใจ (พิมพ์สั้น ๆ)"
	reactDescPrompt   = "ตอนนั้นคุณเลือกที่จะให้ความหมายกับเหตุการณ์อย่างไร? (เช่น เถียงกลับ, เงียบ, หายใจลึก ฯลฯ)"
	reactScorePrompt  = "ให้คะแนน <b>ความรุนแรงของการ React</b> (1–10)\n10 = สงบมาก | 1 = รุนแรง/ขาดสติ"
	reactScoreRedo    = "แก้คะแนน <b>ความรุนแรงของการ React</b> (1–10)\n10 = สงบมาก | 1 = รุนแรง/ขาดสติ"
	reactReasonPrompt = "เหตุผลของการ React (ถ้าไม่มี พิมพ์ - ได้)"
	savedShort        = "บันทึกเรียบร้อย ✅"

	medStartPrompt     = "🧘‍♂️ เริ่มบันทึกสมาธิ — เลือกระยะเวลา"
	medCustomPrompt    = "พิมพ์จำนวนเวลา (นาที) เช่น 25"
	medCustomInvalid   = "โปรดพิมพ์จำนวนเต็มของนาที เช่น 20 หรือพิมพ์ " + CancelText
	medNotePrompt      = "พิมพ์หมายเหตุสั้น ๆ (หรือพิมพ์ - ถ้าไม่มี)"
	reflectionTitle    = "🧘‍♂️ <b>คำสอนสะท้อนเหตุการณ์</b>\n"
	reflectionMissing  = "ไม่มีคำสอนให้บันทึก"
	reflectionNoInput  = "ไม่พบข้อมูลเดิมสำหรับการสร้างใหม่"
	reflectionWorking  = "กำลังสร้างคำสอนใหม่…"
	reflectionSaved    = "บันทึกคำสอนเรียบร้อย ✅"
	reflectionSaveFail = "ไม่สามารถบันทึกคำสอนได้"
	reflectionClosed   = "ปิดแล้ว"

	undoNothing      = "ยังไม่มีรายการของคุณให้ลบครับ"
	exportNothing    = "ยังไม่มีไฟล์ CSV ให้ส่ง"
	exportMedNothing = "ยังไม่มีไฟล์บันทึกสมาธิให้ส่ง"

	subscribedAlready = "✅ สถานะ: สมัครรับสรุปอัตโนมัติอยู่แล้ว"
	subscribedNow     = "✅ สมัครรับสรุปอัตโนมัติเรียบร้อยแล้ว"
	notSubscribed     = "ℹ️ คุณไม่ได้สมัครรับสรุปอัตโนมัติอยู่"
	unsubscribedNow   = "✅ ยกเลิกการรับสรุปอัตโนมัติเรียบร้อยแล้ว"
)

var esc = html.EscapeString

func unknownInputText(input string) string {
	return "คุณพิมพ์: " + esc(input) + "\n\nคำสั่งที่ใช้บ่อย:\n" + commonCommands
}

func tagChosenText(tag string) string {
	return "แท็ก: " + esc(tag) + " ✅\n\n" + eventDescPrompt
}

func useLastText(d *LogDraft) string {
	return "ใช้เหตุการณ์เดิม ✅\n" +
		"• แท็ก: " + esc(domain.OrDash(d.Tag)) + "\n" +
		"• เหตุการณ์: " + esc(domain.OrDash(d.EventDesc)) + "\n\n" +
		dissScorePrompt
}

func dissChosenText(v int) string {
	return fmt.Sprintf("ไม่พอใจ: %d/10 ✅", v)
}

func reactChosenText(v int) string {
	return fmt.Sprintf("React (10=สงบ, 1=รุนแรง): %d/10 ✅", v)
}

func previewText(d *LogDraft) string {
	return "🔎 <b>ตรวจสอบก่อนบันทึก</b>\n" +
		draftLines(d) + "\n\n" +
		"กด <b>ยืนยันบันทึก</b> หรือ <b>ย้อนกลับ</b> เพื่อแก้คะแนน React"
}

func savedText(d *LogDraft) string {
	return "✅ <b>บันทึกสำเร็จ</b>\n" + draftLines(d)
}

func draftLines(d *LogDraft) string {
	return fmt.Sprintf("• แท็ก: %s\n• เหตุการณ์: %s\n• ไม่พอใจ: %d/10 — %s\n• React: %d/10 — %s (%s)",
		esc(domain.OrDash(d.Tag)),
		esc(domain.OrDash(d.EventDesc)),
		d.DissScore, esc(domain.OrDash(d.DissReason)),
		d.ReactScore, esc(domain.OrDash(d.ReactDesc)), esc(domain.OrDash(d.ReactReason)))
}

func undoneText(row domain.Row) string {
	return "↩️ ลบรายการล่าสุดของคุณแล้วครับ\n" +
		"• แท็ก: " + esc(domain.OrDash(row.Get(domain.ColTag))) + "\n" +
		"• เหตุการณ์: " + esc(domain.OrDash(row.Get(domain.ColEventDesc))) + "\n" +
		"• ไม่พอใจ: " + esc(domain.OrDash(row.Get(domain.ColDissatisfactionScore))) + "/10\n" +
		"• React: " + esc(domain.OrDash(row.Get(domain.ColReactionScore))) + "/10"
}

func medDurationText(minutes int) string {
	return fmt.Sprintf("ระยะเวลา: %d นาที ✅\n\nเลือกประเภทการนั่งสมาธิ", minutes)
}

func medSavedText(m *MedDraft) string {
	return fmt.Sprintf("✅ บันทึกสมาธิเรียบร้อย\n• เวลา: %d นาที\n• ประเภท: %s\n• หมายเหตุ: %s",
		m.DurationMin, esc(domain.OrDash(string(m.Type))), esc(domain.OrDash(m.Note)))
}

func subscriberCountText(n int) string {
	return "จำนวนผู้รับสรุปปัจจุบัน: " + strconv.Itoa(n)
}

func exportFailedText(name string, err error) string {
	return "เกิดข้อผิดพลาดขณะส่งไฟล์ " + esc(name) + ": " + esc(err.Error())
}

func tagButtons() [][]Button {
	var rows [][]Button
	var row []Button
	for _, tag := range domain.Tags {
		row = append(row, Button{Text: tag, Data: actionTag + ":" + tag})
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return append(rows,
		[]Button{{Text: "🔁 บันทึกเหตุการณ์เดิมอีกครั้ง", Data: actionUseLast}},
		[]Button{{Text: "❌ ยกเลิก", Data: actionCancel}},
	)
}

func scoreButtons(action string) [][]Button {
	var low, high []Button
	for i := domain.MinScore; i <= domain.MaxScore; i++ {
		b := Button{Text: strconv.Itoa(i), Data: action + ":" + strconv.Itoa(i)}
		if i <= 5 {
			low = append(low, b)
		} else {
			high = append(high, b)
		}
	}
	return [][]Button{low, high, {{Text: "❌ ยกเลิก", Data: actionCancel}}}
}

func confirmButtons() [][]Button {
	return [][]Button{
		{{Text: "⬅️ ย้อนกลับ", Data: actionBack}, {Text: "✅ ยืนยันบันทึก", Data: actionConfirm}},
		{{Text: "❌ ยกเลิก", Data: actionCancel}},
	}
}

func medDurationButtons() [][]Button {
	var presets []Button
	for _, m := range domain.MeditationPresets {
		presets = append(presets, Button{Text: fmt.Sprintf("%d นาที", m), Data: fmt.Sprintf("%s:%d", actionMedDur, m)})
	}
	split := min(4, len(presets))
	return [][]Button{
		presets[:split],
		presets[split:],
		{{Text: "กำหนดเอง", Data: actionMedCustom}},
		{{Text: "❌ ยกเลิก", Data: actionMedCancel}},
	}
}

func medTypeButtons() [][]Button {
	return [][]Button{
		{
			{Text: "Guided", Data: actionMedType + ":" + string(domain.MeditationGuided)},
			{Text: "Unguided", Data: actionMedType + ":" + string(domain.MeditationUnguided)},
		},
		{{Text: "อื่นๆ", Data: actionMedType + ":" + string(domain.MeditationOther)}},
		{{Text: "❌ ยกเลิก", Data: actionMedCancel}},
	}
}

func reflectionButtons() [][]Button {
	return [][]Button{
		{{Text: "🔁 ขอคำสอนใหม่", Data: actionReflectNew}, {Text: "💾 บันทึก", Data: actionReflectSav}},
		{{Text: "❌ ปิด", Data: actionReflectEnd}},
	}
}
