package archive

// Organization identifiers as they appear in the archive CSV.
const (
	OrgCSA  = "CSA"
	OrgNSDC = "NSDC"
)

// ContestRecord is one row of the contest archive. Records are immutable
// once loaded and owned by the Loader for the process lifetime.
type ContestRecord struct {
	ArchiveID    string
	Contest      string
	Organization string
	Year         int // 0 when missing or unparsable
	HostClub     string
	Placement    int // 1-8, 0 when missing
	Division     string
	FemaleName   string
	MaleName     string
	CoupleName   string
	Judges       []string // up to 5, empty entries omitted
	RecordID     string
}

// Document is a named rule document with its extracted plain text.
// Text may be empty when extraction failed; that is not an error.
type Document struct {
	Key   string // stable identifier, e.g. "csa_bylaws"
	Title string // display title used in the knowledge base
	Text  string
}

// DocumentSpec names a rule-document file to extract at load time.
type DocumentSpec struct {
	Key      string
	Title    string
	Filename string
}

// DefaultDocuments is the fixed catalog of rule documents shipped with the
// archive. Absence of any one file is non-fatal.
func DefaultDocuments() []DocumentSpec {
	return []DocumentSpec{
		{Key: "csa_bylaws", Title: "CSA Bylaws", Filename: "ByLawsCompleted10-2020.pdf"},
		{Key: "csa_rules", Title: "CSA Rules", Filename: "CSARulesAndRegsREVISED120223.pdf"},
		{Key: "nsdc_rules", Title: "NSDC Rules", Filename: "NSDC NATIONAL SHAG DANCE CHAMPIONSHIP RULES.pdf"},
		{Key: "nsdc_songs", Title: "NSDC Songs", Filename: "NSDC Required Song List.pdf"},
	}
}
