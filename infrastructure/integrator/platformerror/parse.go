package platformerror

import (
	"strconv"

	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

type metaErrorBody struct {
	Error struct {
		Message      string `json:"message"`
		Type         string `json:"type"`
		Code         int    `json:"code"`
		ErrorSubcode int    `json:"error_subcode"`
		FBTraceID    string `json:"fbtrace_id"`
	} `json:"error"`
}

type xErrorBody struct {
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

type googleErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

type tiktokErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type snapchatErrorBody struct {
	RequestStatus string `json:"request_status"`
	ErrorCode     string `json:"error_code"`
	DebugMessage  string `json:"debug_message"`
}

// ParseBody extrai o código e a mensagem de erro do corpo de uma resposta,
// no formato próprio de cada plataforma, montando o RawError para classificação
func ParseBody(platform domain.Platform, httpStatus int, body []byte) RawError {
	raw := RawError{HTTPStatus: httpStatus}
	if len(body) == 0 {
		return raw
	}

	switch platform {
	case domain.PlatformMeta:
		var parsed metaErrorBody
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Code != 0 {
			raw.Code = strconv.Itoa(parsed.Error.Code)
			raw.Subcode = parsed.Error.ErrorSubcode
			raw.Message = parsed.Error.Message
		}
	case domain.PlatformX:
		var parsed xErrorBody
		if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Errors) > 0 {
			raw.Code = strconv.Itoa(parsed.Errors[0].Code)
			raw.Message = parsed.Errors[0].Message
		}
	case domain.PlatformGoogle:
		var parsed googleErrorBody
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Status != "" {
			raw.Code = parsed.Error.Status
			raw.Message = parsed.Error.Message
		}
	case domain.PlatformTikTok:
		var parsed tiktokErrorBody
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Code != 0 {
			raw.Code = strconv.Itoa(parsed.Code)
			raw.Message = parsed.Message
		}
	case domain.PlatformSnapchat:
		var parsed snapchatErrorBody
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.ErrorCode != "" {
			raw.Code = parsed.ErrorCode
			raw.Message = parsed.DebugMessage
		}
	}

	return raw
}
