package zap

import "strings"

// controlCharReplacer escapes control characters that could forge log entries
// in the console encoder (CWE-117). The JSON encoder already escapes them.
var controlCharReplacer = strings.NewReplacer(
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func sanitizeString(s string) string {
	return controlCharReplacer.Replace(s)
}
