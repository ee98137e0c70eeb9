package loader

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"sort"
	"strings"
)

var (
	headerPart = regexp.MustCompile(`^word/header\d*\.xml$`)
	footerPart = regexp.MustCompile(`^word/footer\d*\.xml$`)
)

const bodyPart = "word/document.xml"

// readDocx extracts headers, body and footers of a .docx package, in that order.
func readDocx(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	var headers, footers []*zip.File
	var body *zip.File
	for _, f := range r.File {
		switch {
		case f.Name == bodyPart:
			body = f
		case headerPart.MatchString(f.Name):
			headers = append(headers, f)
		case footerPart.MatchString(f.Name):
			footers = append(footers, f)
		}
	}
	if body == nil {
		return "", errors.New("not a Word document: missing " + bodyPart)
	}
	byName := func(files []*zip.File) {
		sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	}
	byName(headers)
	byName(footers)

	var b strings.Builder
	parts := append(append(headers, body), footers...)
	for _, part := range parts {
		if err := writePartText(&b, part); err != nil {
			return "", err
		}
	}

	return strings.TrimSpace(b.String()), nil
}

func writePartText(b *strings.Builder, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteString("\t")
			case "br", "cr":
				b.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
}
