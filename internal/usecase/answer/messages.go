package answer

import (
	"context"
	"errors"

	"github.com/kailas-cloud/lessonqa/internal/domain"
)

// User-facing answers for every failure path. The API never returns a raw error.
const (
	MsgEmptyQuestion   = "Vui lòng nhập câu hỏi của bạn."
	MsgEmptyOutput     = "Xin lỗi, không thể xử lý câu hỏi này. Vui lòng thử lại với câu hỏi khác."
	MsgNoAnswer        = "Xin lỗi, tôi không thể trả lời câu hỏi này."
	MsgTimeout         = "Xin lỗi, máy chủ đang phản hồi chậm. Vui lòng thử lại sau ít phút."
	MsgUnreachable     = "Xin lỗi, không thể kết nối với máy chủ. Vui lòng kiểm tra kết nối mạng và thử lại."
	MsgProtocol        = "Xin lỗi, đã xảy ra lỗi khi giao tiếp với máy chủ. Vui lòng thử lại sau."
	MsgInvalidResponse = "Xin lỗi, máy chủ trả về dữ liệu không hợp lệ. Vui lòng thử lại."
	MsgEmptyResponse   = "Xin lỗi, máy chủ không trả về câu trả lời hợp lệ. Vui lòng thử lại."
	MsgNotConfigured   = "Xin lỗi, hệ thống chưa được cấu hình đúng. Vui lòng liên hệ quản trị viên."
	MsgUnexpected      = "Xin lỗi, đã xảy ra lỗi không mong muốn. Vui lòng thử lại sau."
	MsgWelcome         = "Welcome to the lesson question answering API. Use the /ask endpoint to ask questions about the lesson data."
	noAIFoundFormat    = "Với câu hỏi '%s', chúng tôi có câu trả lời: %s"
	noAINotFoundFormat = "Với câu hỏi '%s', chúng tôi không tìm thấy thông tin phù hợp. Vui lòng thử lại với câu hỏi khác."
)

// MessageFor maps a generation error to its localized apology.
func MessageFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrLLMTimeout), errors.Is(err, context.DeadlineExceeded):
		return MsgTimeout
	case errors.Is(err, domain.ErrLLMUnreachable):
		return MsgUnreachable
	case errors.Is(err, domain.ErrLLMProtocol):
		return MsgProtocol
	case errors.Is(err, domain.ErrLLMInvalidResponse):
		return MsgInvalidResponse
	case errors.Is(err, domain.ErrLLMEmptyResponse):
		return MsgEmptyResponse
	case errors.Is(err, domain.ErrLLMNotConfigured):
		return MsgNotConfigured
	case errors.Is(err, domain.ErrEmptyQuestion):
		return MsgEmptyQuestion
	default:
		return MsgUnexpected
	}
}

// fallsBackToContext reports errors after which the raw context is a better answer than an apology.
func fallsBackToContext(err error) bool {
	return errors.Is(err, domain.ErrLLMUnavailable) || errors.Is(err, domain.ErrLLMBudgetExceeded)
}
