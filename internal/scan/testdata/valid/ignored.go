//go:build ignore

package valid

// +builder:gen=true
type Ignored struct {
	Name string
}
