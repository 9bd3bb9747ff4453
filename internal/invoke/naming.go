package invoke

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

const nameSuffixBytes = 9

var nameSanitizer = strings.NewReplacer("_", "", "'", "", `"`, "")

// ContainerName generates a unique, traceable container name of the
// form "<job>--<suffix>". The suffix comes from a cryptographically
// sourced random byte string, encoded and stripped down to
// identifier-safe characters; collisions are negligible at any
// realistic concurrency.
func ContainerName(job string) string {
	b := make([]byte, nameSuffixBytes)
	rand.Read(b)
	suffix := nameSanitizer.Replace(base64.URLEncoding.EncodeToString(b))
	return job + "--" + suffix
}
