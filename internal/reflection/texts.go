package reflection

import (
	"fmt"
	"strings"
)

const fallbackText = "(AI) ไม่สามารถเรียกโมเดลได้ — ข้อความสะท้อนสำรอง:\n" +
	"หลักธรรม: ยอมรับความไม่เที่ยง, ลดอวิชชา/อุปาทาน\n" +
	"แนวปฏิบัติ:\n" +
	"• หายใจเข้ายาว ๆ 3 ครั้งเมื่อรู้สึกขึ้น\n" +
	"• ยอมรับความรู้สึกโดยไม่ตัดสิน 1 นาที\n" +
	"• จดสั้น ๆ สิ่งที่เรียนรู้ 1 ข้อ"

// Fallback is the fixed reflection used when no backend answer is available.
func Fallback() string {
	return fallbackText
}

func buildPrompt(in Input) string {
	return strings.TrimSpace(fmt.Sprintf(`
คุณคือพระพุทธเจ้าในพระไตรปิฎก (เชิงสำนวน/แนวคิด)
เหตุการณ์: %s
ความไม่พอใจ: %d/10 — %s
ปฏิกิริยา: %d/10 — %s

จงสะท้อนคำสอนอย่างสั้นและกระชับมาก:
• อ้างหลักธรรมที่เกี่ยวข้อง (1–2 ข้อ)
• แนะแนวปฏิบัติแบบลงมือทำได้ทันที (ไม่เกิน 3 bullets)
• ความยาวรวม ≤ 80 คำ
ตอบเป็นภาษาไทยเท่านั้น
`, in.Event, in.DissScore, in.DissReason, in.ReactScore, in.ReactDesc))
}

const (
	uiHeader         = "🧘‍♂️ คำสอนสะท้อนเหตุการณ์\n\n"
	uiFooter         = "\n\nกด \"ขอคำสอนใหม่\" เพื่อให้ AI สร้างอีกชุด หรือ \"บันทึก\" เพื่อเก็บไว้"
	principlePrefix  = "หลักธรรม"
	practicePrefix   = "แนวปฏิบัติ"
	principleHeading = "📜 หลักธรรม:"
	practiceHeading  = "🛠️ แนวปฏิบัติ:"
)

// Render lays a reflection out for display as plain text: bullets are
// normalised to "• ", principle and practice lines become headings, and a
// header and footer hint are added.
func Render(text string) string {
	var body []string
	for _, raw := range strings.Split(strings.TrimSpace(text), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-"):
			body = append(body, "• "+strings.TrimSpace(strings.TrimLeft(line, "•- ")))
		case strings.HasPrefix(line, principlePrefix):
			if _, rest, ok := strings.Cut(line, ":"); ok {
				body = append(body, principleHeading, strings.TrimSpace(rest))
			} else {
				body = append(body, "📜 "+line)
			}
		case strings.HasPrefix(line, practicePrefix):
			if _, rest, ok := strings.Cut(line, ":"); ok {
				body = append(body, practiceHeading)
				if rest = strings.TrimSpace(rest); rest != "" {
					body = append(body, "• "+rest)
				}
			} else {
				body = append(body, "🛠️ "+line)
			}
		default:
			body = append(body, line)
		}
	}
	return uiHeader + strings.Join(body, "\n") + uiFooter
}
