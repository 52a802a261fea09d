package nested

// +builder:gen=true
type Nested struct {
	Name string
}
