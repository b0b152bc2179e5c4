package model

import "time"

// Protocol version advertised in the welcome frame.
const ProtocolVersion = "MCP-V1"

// Frame types.
const (
	FrameRequest   = "mcp_request"
	FrameResponse  = "mcp_response"
	FrameError     = "mcp_error"
	FrameWelcome   = "mcp_welcome"
	FrameChat      = "chat"
	FrameChatReply = "chat_response"
	FrameBroadcast = "broadcast"
	FrameEcho      = "echo"
)

// Protocol actions. The vocabulary is closed; dispatch is table-driven so an
// unknown action is a data branch, not a failure.
const (
	ActionSearchCars       = "search_cars"
	ActionGetBrands        = "get_brands"
	ActionGetColors        = "get_colors"
	ActionGetEngines       = "get_engines"
	ActionGetCarDetails    = "get_car_details"
	ActionGetFilterOptions = "get_filters_options"
)

// AvailableActions is the fixed action list advertised on connect.
var AvailableActions = []string{
	ActionSearchCars,
	ActionGetBrands,
	ActionGetColors,
	ActionGetEngines,
	ActionGetCarDetails,
	ActionGetFilterOptions,
}

// Error codes carried in error envelopes.
const (
	CodeInvalidJSON       = "INVALID_JSON"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeUnsupportedAction = "UNSUPPORTED_ACTION"
	CodeMissingCarID      = "MISSING_CAR_ID"
	CodeCarNotFound       = "CAR_NOT_FOUND"
	CodeSearchError       = "SEARCH_ERROR"
	CodeBrandsError       = "BRANDS_ERROR"
	CodeColorsError       = "COLORS_ERROR"
	CodeEnginesError      = "ENGINES_ERROR"
	CodeCarDetailsError   = "CAR_DETAILS_ERROR"
	CodeFilterOptions     = "FILTERS_OPTIONS_ERROR"
	CodeRequestProcessing = "REQUEST_PROCESSING_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Request is an inbound protocol frame.
type Request struct {
	Type      string         `json:"type"`
	RequestID string         `json:"request_id,omitempty"`
	Data      map[string]any `json:"data"`
}

// Action returns the action named in the request payload.
func (r *Request) Action() string {
	if r.Data == nil {
		return ""
	}
	action, _ := r.Data["action"].(string)
	return action
}

// Response is an outbound protocol frame, correlated to its request by
// request_id.
type Response struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Welcome is the handshake frame sent once per connection.
type Welcome struct {
	Type             string   `json:"type"`
	Message          string   `json:"message"`
	Protocol         string   `json:"protocol"`
	AvailableActions []string `json:"available_actions"`
	User             string   `json:"user"`
	Room             string   `json:"room"`
	Timestamp        string   `json:"timestamp"`
}

// NewResponse builds a successful response envelope.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Type:      FrameResponse,
		RequestID: requestID,
		Success:   true,
		Data:      data,
		Timestamp: Now(),
	}
}

// NewError builds an error envelope with a specific code.
func NewError(requestID, message, code string) *Response {
	return &Response{
		Type:      FrameError,
		RequestID: requestID,
		Success:   false,
		Data:      map[string]any{},
		Error:     message,
		ErrorCode: code,
		Timestamp: Now(),
	}
}

// Now returns the protocol timestamp format.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
