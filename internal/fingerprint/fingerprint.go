package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
)

const separator = "|"

// Hash derives the deduplication identity of an error: a deterministic
// 32-character lowercase hex digest of the error class, message, originating
// file and line. Identical errors at the identical call site always hash
// identically.
func Hash(class, message, file string, line int) string {
	var builder strings.Builder
	builder.WriteString(class)
	builder.WriteString(separator)
	builder.WriteString(message)
	builder.WriteString(separator)
	builder.WriteString(file)
	builder.WriteString(separator)
	builder.WriteString(strconv.Itoa(line))

	sum := md5.Sum([]byte(builder.String()))
	return hex.EncodeToString(sum[:])
}
