package hidden

// +builder:gen=true
type Hidden struct {
	Name string
}
