package calls

import "strings"

// Canonical outcome codes produced by Classify.
const (
	CodeConnect  = "connect"
	CodeSet      = "set"
	CodeShow     = "show"
	CodeCallback = "callback"
	CodeNoAnswer = "no_answer"
	CodeSmsSent  = "sms_sent"
)

type keywordRule struct {
	code     string
	keywords []string
}

// classifyTable is matched top to bottom; the first rule whose keyword
// appears as a substring of the raw result wins. Order matters: show
// outranks set, and set keywords like 設定 would otherwise swallow
// compound statuses such as 面接設定→着座.
var classifyTable = []keywordRule{
	{code: CodeShow, keywords: []string{"着座"}},
	{code: CodeSet, keywords: []string{"設定", "アポ確定"}},
	{code: CodeCallback, keywords: []string{"折返", "折り返し"}},
	{code: CodeNoAnswer, keywords: []string{"不在", "留守"}},
	{code: CodeConnect, keywords: []string{"通電"}},
	{code: CodeSmsSent, keywords: []string{"SMS送信", "SMS", "sms"}},
}

// Classify maps raw call-result text to a canonical code. Unmatched
// text yields the empty string and every derived predicate is false.
func Classify(rawResult string) string {
	text := strings.TrimSpace(rawResult)
	if text == "" {
		return ""
	}
	for _, rule := range classifyTable {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				return rule.code
			}
		}
	}
	return ""
}

// IsConnect reports whether the call reached the candidate.
func IsConnect(code string) bool {
	switch code {
	case CodeConnect, CodeSet, CodeShow, CodeCallback:
		return true
	}
	return false
}

// IsContact is the contact-rate denominator predicate. It currently
// covers the same codes as IsConnect but is kept separate because the
// two denominators are allowed to diverge.
func IsContact(code string) bool {
	switch code {
	case CodeConnect, CodeCallback, CodeSet, CodeShow:
		return true
	}
	return false
}

// IsSet reports whether an appointment was set.
func IsSet(code string) bool {
	return code == CodeSet || code == CodeShow
}

// IsShow reports attendance. A set call counts as a show once the
// candidate's attendance has been confirmed out of band.
func IsShow(code string, attendanceConfirmed bool) bool {
	if code == CodeShow {
		return true
	}
	return code == CodeSet && attendanceConfirmed
}
