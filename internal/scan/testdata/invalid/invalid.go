package invalid

import "fmt"

// +builder:gen=true
type Mode int

// +builder:gen=true
type Wrapper struct {
	fmt.Stringer
	Name string
}

// +builder:gen=true
type Alias = Valid

// +builder:gen=true
type Valid struct {
	Name string
}
