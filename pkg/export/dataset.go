package export

// Dataset defines tabular export content.
type Dataset struct {
	Title   string
	Summary []Field
	Headers []string
	Rows    []map[string]string
}

// Field is a labelled value printed above a table.
type Field struct {
	Label string
	Value string
}

// Exporter renders a dataset into a document.
type Exporter interface {
	Render(data Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}
