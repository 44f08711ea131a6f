package answer

import "fmt"

const promptTemplate = `Dựa trên dữ liệu JSON sau:

%s

Vui lòng trả lời câu hỏi này: %s

Hãy đưa ra câu trả lời rõ ràng và ngắn gọn, chỉ dựa trên dữ liệu được hiển thị ở trên.
Tuân thủ các quy tắc sau:
- Nếu ngày được hỏi không có trong dữ liệu, trả lời: "Không có buổi học nào vào ngày <ngày được hỏi>."
- Nếu ngày được hỏi có trong dữ liệu nhưng không có thông tin cần tìm, trả lời: "Buổi học ngày <ngày được hỏi> chưa có thông tin này."
- Nếu có buổi học vào ngày gần nhất với ngày được hỏi, trả lời: "Không có buổi học vào ngày <ngày được hỏi>. Buổi học gần nhất là ngày <ngày gần nhất>." rồi cung cấp thông tin của buổi học đó.
- Không bịa thêm thông tin ngoài dữ liệu.`

// BuildPrompt embeds the retrieval context and the original question into the LLM prompt.
func BuildPrompt(context, question string) string {
	return fmt.Sprintf(promptTemplate, context, question)
}
