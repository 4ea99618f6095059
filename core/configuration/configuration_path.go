package configuration

import (
	"strings"
)

const KeyDelimiter = ":"

func PathCombine(segments ...string) string {
	nonEmpty := make([]string, 0, len(segments))
	for _, segment := range segments {
		if len(segment) > 0 {
			nonEmpty = append(nonEmpty, segment)
		}
	}
	return strings.Join(nonEmpty, KeyDelimiter)
}

func pathSectionKey(path string) string {
	idx := strings.LastIndexByte(path, ':')
	if idx == -1 {
		return path
	}

	return path[idx+1:]
}

func keySegment(key string, prefixLength int) string {
	if prefixLength >= len(key) {
		return ""
	}
	idx := strings.IndexByte(key[prefixLength:], ':')
	if idx == -1 {
		return key[prefixLength:]
	}

	return key[prefixLength : prefixLength+idx]
}

func hasPathPrefix(key, parentPath string) bool {
	return len(key) > len(parentPath) &&
		key[len(parentPath)] == ':' &&
		strings.EqualFold(key[:len(parentPath)], parentPath)
}
