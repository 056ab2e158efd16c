package ports

// Row is one line of the interchange table: a single location of a message.
type Row struct {
	Context     string
	Filename    string
	Line        int
	Source      string
	Translation string
}

// RowIssue reports a data row the decoder had to skip.
type RowIssue struct {
	Record int // 1-based, header is record 1
	Err    error
}

// RowCodec converts interchange rows to and from their file representation.
type RowCodec interface {
	Format() string
	Encode(rows []Row) ([]byte, error)
	Decode(data []byte) ([]Row, []RowIssue, error)
}
