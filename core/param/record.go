package param

// span is a half-open byte range [from, edge) into the request store.
type span struct {
	from int64
	edge int64
}

func (s span) size() int64   { return s.edge - s.from }
func (s span) isEmpty() bool { return s.edge <= s.from }

// record is one occurrence of a field in the request, in encounter order.
type record struct {
	name        span
	value       span
	fileName    span // only for file parts
	contentType span // only for file parts that declared one
	isFile      bool
}

// Info describes a parsed record without its value.
type Info struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	IsFile      bool   `json:"is_file,omitempty"`
	FileName    string `json:"file_name,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}
