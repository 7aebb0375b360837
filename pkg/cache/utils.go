package cache

import "fmt"

// GenerateKeyWithParams appends each param to the prefix, colon
// separated. Used for keys that vary by request parameters, like a
// series id plus its date window.
func GenerateKeyWithParams(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key = fmt.Sprintf("%s:%v", key, param)
	}
	return key
}
