package fbr

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Outcome is the canonical result of one submission attempt, normalized from
// whatever shape the authority returned. Immutable once produced.
type Outcome struct {
	Success        bool   `json:"success"`
	ConfirmationID string `json:"confirmation_id,omitempty"`
	ErrorCode      string `json:"error_code,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
	RawResponse    string `json:"raw_response"`
}

// The FBR response shape is not stable: the same endpoint has been observed
// returning boolean success flags, status strings, confirmation ids under
// several names, error objects, error arrays and bare text. Each candidate
// field list below is ordered by how often the variant shows up; extraction
// strategies are tried in order until one produces an outcome.
var (
	successFlagKeys     = []string{"success", "isSuccess", "valid"}
	successStatusValues = map[string]bool{"valid": true, "success": true, "ok": true, "00": true}
	confirmationKeys    = []string{"irn", "invoiceNumber", "fbrInvoiceNumber", "invoiceRefNo", "inv_ref_no"}
	errorContainerKeys  = []string{"validationResponse", "error", "response"}
	errorArrayKeys      = []string{"errors", "invoiceStatuses"}
	errorCodeKeys       = []string{"errorCode", "error_code", "code", "statusCode"}
	errorMessageKeys    = []string{"error", "errorMessage", "error_message", "message", "errorDesc", "reason"}

	// Bare-text responses sometimes carry the 4-digit code inline.
	textCodePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)error[:\s]+(\d{4})`),
		regexp.MustCompile(`(?i)code[:\s]+(\d{4})`),
		regexp.MustCompile(`(\d{4})`),
	}
)

// ParseResponse normalizes an arbitrary FBR response body into an Outcome.
// It never fails: unrecognizable input produces a generic failure outcome
// with the raw body preserved so nothing is lost for manual reconciliation.
func ParseResponse(raw []byte) Outcome {
	rawStr := string(raw)

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err == nil && doc != nil {
		if out, ok := parseDocument(doc, rawStr); ok {
			return out
		}
		// Structured but unrecognizable: keep the raw body as the message.
		return Outcome{
			Success:      false,
			ErrorMessage: rawStr,
			RawResponse:  rawStr,
		}
	}

	// The body may be a JSON-encoded string wrapping plain text.
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return parseText(text, rawStr)
	}

	return parseText(rawStr, rawStr)
}

// parseDocument tries the structured extraction strategies in order
func parseDocument(doc map[string]any, rawStr string) (Outcome, bool) {
	// Strategy 1: explicit success markers.
	if isSuccess(doc) {
		return Outcome{
			Success:        true,
			ConfirmationID: firstString(doc, confirmationKeys),
			RawResponse:    rawStr,
		}, true
	}

	// Strategy 2: a confirmation-id-shaped field alone marks success.
	if id := firstString(doc, confirmationKeys); id != "" && !hasErrorShape(doc) {
		return Outcome{
			Success:        true,
			ConfirmationID: id,
			RawResponse:    rawStr,
		}, true
	}

	// Strategy 3: error object/array variants, nested and first-of-array.
	for _, container := range errorDocuments(doc) {
		code := firstString(container, errorCodeKeys)
		message := firstString(container, errorMessageKeys)
		if code != "" || message != "" {
			return Outcome{
				Success:      false,
				ErrorCode:    code,
				ErrorMessage: message,
				RawResponse:  rawStr,
			}, true
		}
	}

	return Outcome{}, false
}

// parseText extracts a 4-digit code from a bare string response, falling back
// to an unknown-format failure that preserves the text as the message.
func parseText(text, rawStr string) Outcome {
	trimmed := strings.TrimSpace(text)
	out := Outcome{
		Success:      false,
		ErrorMessage: trimmed,
		RawResponse:  rawStr,
	}
	for _, pattern := range textCodePatterns {
		if m := pattern.FindStringSubmatch(trimmed); m != nil {
			out.ErrorCode = m[1]
			break
		}
	}
	return out
}

func isSuccess(doc map[string]any) bool {
	for _, key := range successFlagKeys {
		switch v := doc[key].(type) {
		case bool:
			if v {
				return true
			}
		case string:
			if strings.EqualFold(v, "true") {
				return true
			}
		}
	}
	if status, ok := doc["status"].(string); ok && successStatusValues[strings.ToLower(status)] {
		return true
	}
	return false
}

func hasErrorShape(doc map[string]any) bool {
	return len(errorDocuments(doc)) > 1 // beyond the top-level document itself
}

// errorDocuments collects the candidate containers an error code/message may
// hide in: the document itself, known nested objects, and the first element
// of known arrays.
func errorDocuments(doc map[string]any) []map[string]any {
	containers := []map[string]any{doc}
	for _, key := range errorContainerKeys {
		if nested, ok := doc[key].(map[string]any); ok {
			containers = append(containers, nested)
		}
	}
	for _, key := range errorArrayKeys {
		if arr, ok := doc[key].([]any); ok && len(arr) > 0 {
			if first, ok := arr[0].(map[string]any); ok {
				containers = append(containers, first)
			}
		}
	}
	return containers
}

// firstString returns the first non-empty string value among the candidate
// keys. Numeric values are not coerced: a numeric "code" field is a status
// code, not an FBR error code.
func firstString(doc map[string]any, keys []string) string {
	for _, key := range keys {
		if s, ok := doc[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
