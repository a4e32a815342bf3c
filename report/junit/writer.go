package junit

import (
	"encoding/xml"
	"io"

	"github.com/securego/revmark"
)

// WriteReport write a report in JUnit format to the output writer
func WriteReport(w io.Writer, data *revmark.ReportInfo) error {
	junitXMLStruct := GenerateReport(data)
	raw, err := xml.MarshalIndent(junitXMLStruct, "", "\t")
	if err != nil {
		return err
	}

	xmlHeader := []byte("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	raw = append(xmlHeader, raw...)
	_, err = w.Write(raw)
	return err
}
