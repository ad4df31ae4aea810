package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/ovh/layersync/sdk"
)

const arnPrefix = "arn:aws:lambda:"

// Info is the content of the report.
type Info struct {
	Title        string
	Description  string
	Instructions string
	ReleaseName  string
	UpdatedAt    time.Time
	Layers       []sdk.PublishedLayer
}

// DefaultTitle returns the title of the report of a layer.
func DefaultTitle(layerName string) string {
	return "Lambda Layers For " + layerName
}

// DefaultInstructions returns the usage instructions of a layer.
func DefaultInstructions(layerName string) string {
	return fmt.Sprintf("Add the ARN of your function's region to its layers to use `%s`. "+
		"Each published version can be used by any AWS account.", layerName)
}

// Label returns the region part of a layer ARN, ie. arn:aws:lambda:eu-west-1:1234:layer:foo:3 returns eu-west-1.
func Label(arn string) string {
	s := strings.TrimPrefix(arn, arnPrefix)
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[:i]
	}
	return s
}

type row struct {
	label string
	arn   string
}

// Rows returns the rows of the report table: one per published layer version, sorted by label.
func Rows(layers []sdk.PublishedLayer) [][]string {
	var rows []row
	for _, l := range layers {
		if !l.IsPublished() {
			continue
		}
		label := Label(l.LayerVersionArn)
		if label == "" {
			label = string(l.Region)
		}
		rows = append(rows, row{label: label, arn: l.LayerVersionArn})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].label < rows[j].label })

	res := make([][]string, len(rows))
	for i, r := range rows {
		res[i] = []string{r.label, "`" + r.arn + "`"}
	}
	return res
}

// Generate renders the Markdown report.
func Generate(info Info) string {
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "# %s\n\n", info.Title)
	if info.Description != "" {
		fmt.Fprintf(buf, "%s\n\n", strings.TrimSpace(info.Description))
	}
	if info.Instructions != "" {
		fmt.Fprintf(buf, "%s\n\n", strings.TrimSpace(info.Instructions))
	}
	fmt.Fprintf(buf, "Last updated %s\n\n", info.UpdatedAt.UTC().Format(time.RFC1123))
	if info.ReleaseName != "" {
		fmt.Fprintf(buf, "Latest release: %s\n\n", info.ReleaseName)
	}

	table := tablewriter.NewWriter(buf)
	table.SetHeader([]string{"Region", "ARN"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(Rows(info.Layers))
	table.Render()

	return buf.String()
}
