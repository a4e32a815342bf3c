package sarif

// Report is the top level SARIF log
type Report struct {
	Version string `json:"version"`
	Schema  string `json:"$schema"`
	Runs    []*Run `json:"runs"`
}

// Run describes one invocation of an analysis tool
type Run struct {
	Tool    *Tool     `json:"tool"`
	Results []*Result `json:"results"`
}

// Tool wraps the driver component that produced the results
type Tool struct {
	Driver *ToolComponent `json:"driver"`
}

// ToolComponent describes the analysis tool and its rules
type ToolComponent struct {
	Name            string                 `json:"name"`
	Version         string                 `json:"version,omitempty"`
	SemanticVersion string                 `json:"semanticVersion,omitempty"`
	InformationURI  string                 `json:"informationUri,omitempty"`
	GUID            string                 `json:"guid,omitempty"`
	Rules           []*ReportingDescriptor `json:"rules,omitempty"`
}

// ReportingDescriptor describes a rule
type ReportingDescriptor struct {
	ID                   string                    `json:"id"`
	GUID                 string                    `json:"guid,omitempty"`
	Name                 string                    `json:"name,omitempty"`
	HelpURI              string                    `json:"helpUri,omitempty"`
	ShortDescription     *MultiformatMessageString `json:"shortDescription,omitempty"`
	FullDescription      *MultiformatMessageString `json:"fullDescription,omitempty"`
	DefaultConfiguration *ReportingConfiguration   `json:"defaultConfiguration,omitempty"`
	Properties           *PropertyBag              `json:"properties,omitempty"`
}

// ReportingConfiguration is the default configuration of a rule
type ReportingConfiguration struct {
	Level Level `json:"level,omitempty"`
}

// PropertyBag holds free form properties
type PropertyBag map[string]interface{}

// MultiformatMessageString is a message in plain text and optional markdown
type MultiformatMessageString struct {
	Text     string `json:"text"`
	Markdown string `json:"markdown,omitempty"`
}

// Message is the text of a result or of a fix
type Message struct {
	Text     string `json:"text,omitempty"`
	Markdown string `json:"markdown,omitempty"`
}

// Result is one marker
type Result struct {
	RuleID       string         `json:"ruleId"`
	RuleIndex    int            `json:"ruleIndex"`
	Level        Level          `json:"level"`
	Message      *Message       `json:"message"`
	Locations    []*Location    `json:"locations"`
	Suppressions []*Suppression `json:"suppressions,omitempty"`
	Fixes        []*Fix         `json:"fixes,omitempty"`
}

// Fix proposes a change for a result
type Fix struct {
	Description *Message `json:"description"`
}

// Suppression tells why a result is not reported
type Suppression struct {
	Kind          string `json:"kind"`
	Justification string `json:"justification,omitempty"`
}

// Location of a result
type Location struct {
	PhysicalLocation *PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation is a region of an artifact
type PhysicalLocation struct {
	ArtifactLocation *ArtifactLocation `json:"artifactLocation"`
	Region           *Region           `json:"region"`
}

// ArtifactLocation is the URI of a file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region is a line span of a file
type Region struct {
	StartLine   int `json:"startLine"`
	EndLine     int `json:"endLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}
