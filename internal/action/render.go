package action

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/chtzvt/podctl/internal/api"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	Text  Format = "text"
	JSON  Format = "json"
	YAML  Format = "yaml"
	Table Format = "table"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", Text:
		return Text, nil
	case JSON, YAML, Table:
		return f, nil
	}
	return "", usagef("Unknown output format %q, expected one of text, json, yaml, table", s)
}

// DecodeVMName recovers a VM name from the custom templates listing. The
// server percent-encodes these twice, so two decoding passes are applied.
// Each pass decodes every well formed %XX escape and keeps anything else,
// such as a bare '%', as written.
// TODO: drop the second pass once the server stops double-encoding VM names.
func DecodeVMName(s string) string {
	return unescapeLenient(unescapeLenient(s))
}

func unescapeLenient(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	}
	return c - '0'
}

// TemplateListing is the combined view of preset and custom templates.
type TemplateListing struct {
	Presets []string               `json:"presets" yaml:"presets"`
	Custom  []api.TemplateCategory `json:"custom" yaml:"custom"`
}

func newTemplateListing(presets []string, custom []api.TemplateCategory) TemplateListing {
	out := TemplateListing{Presets: presets, Custom: make([]api.TemplateCategory, len(custom))}
	for i, cat := range custom {
		vms := make([]string, len(cat.VMs))
		for j, vm := range cat.VMs {
			vms[j] = DecodeVMName(vm)
		}
		out.Custom[i] = api.TemplateCategory{Name: cat.Name, VMs: vms}
	}
	return out
}

func writeStructured(w io.Writer, f Format, v any) error {
	switch f {
	case JSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("format %s is not structured", f)
}

// writeResponse relays a raw response body. Structured formats re-encode
// JSON bodies; anything else is printed as received.
func writeResponse(w io.Writer, f Format, body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if f == JSON || f == YAML {
		var v any
		if err := json.Unmarshal(trimmed, &v); err == nil {
			return writeStructured(w, f, v)
		}
	}
	_, err := fmt.Fprintln(w, string(trimmed))
	return err
}

func writePods(w io.Writer, f Format, pods []api.Pod) error {
	switch f {
	case JSON, YAML:
		if pods == nil {
			pods = []api.Pod{}
		}
		return writeStructured(w, f, pods)
	case Table:
		if len(pods) == 0 {
			fmt.Fprintln(w, "No pods found")
			return nil
		}
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Name"})
		for _, p := range pods {
			table.Append([]string{p.Name})
		}
		table.Render()
		return nil
	}

	fmt.Fprintln(w, "[+] Active user pods:")
	for _, p := range pods {
		fmt.Fprintf(w, "\t%s\n", p.Name)
	}
	return nil
}

func writeTemplates(w io.Writer, f Format, l TemplateListing) error {
	switch f {
	case JSON, YAML:
		return writeStructured(w, f, l)
	case Table:
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Kind", "Category", "Name"})
		for _, p := range l.Presets {
			table.Append([]string{"preset", "-", p})
		}
		for _, cat := range l.Custom {
			for _, vm := range cat.VMs {
				table.Append([]string{"custom", cat.Name, vm})
			}
		}
		table.Render()
		return nil
	}

	fmt.Fprintln(w, "[+] Preset templates")
	for _, p := range l.Presets {
		fmt.Fprintf(w, "\t%s\n", p)
	}
	fmt.Fprintln(w, "[+] Images available for custom templates")
	for _, cat := range l.Custom {
		fmt.Fprintf(w, "\t%s:\n", cat.Name)
		for _, vm := range cat.VMs {
			fmt.Fprintf(w, "\t\t%s\n", vm)
		}
	}
	return nil
}
