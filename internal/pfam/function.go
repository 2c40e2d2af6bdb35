package pfam

// Source is the functional source tag written for Pfam annotations.
const Source = "Pfam"

// FunctionCall is one gene annotation destined for the results store.
type FunctionCall struct {
	Source       string
	GeneCallerID int
	Accession    string
	Function     string
	EValue       float64
}
