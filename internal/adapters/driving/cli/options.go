package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// requestFlags are shared by the command and service commands.
type requestFlags struct {
	keywords      []string
	params        []string
	headers       []string
	data          []string
	files         []string
	body          string
	contentType   string
	partition     string
	distinctField string
	imageID       string
	expand        bool
	output        string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringArrayVarP(&f.keywords, "keyword", "k", nil, "Keyword argument key=value, matched against the operation's query parameters")
	fl.StringArrayVarP(&f.params, "param", "p", nil, "Query parameter key=value, sent as given")
	fl.StringArrayVarP(&f.headers, "header", "H", nil, "Extra header key=value")
	fl.StringArrayVar(&f.data, "data", nil, "Form field key=value")
	fl.StringArrayVar(&f.files, "file", nil, "Multipart file field=path")
	fl.StringVar(&f.body, "body", "", "JSON body, or @path to read it from a file")
	fl.StringVar(&f.contentType, "content-type", "", "Content-Type header")
	fl.StringVar(&f.partition, "partition", "", "Event stream partition")
	fl.StringVar(&f.distinctField, "distinct-field", "", "Distinct field path value")
	fl.StringVar(&f.imageID, "image-id", "", "Image id path value")
	fl.BoolVar(&f.expand, "expand", false, "Report status and headers for binary downloads")
	fl.StringVarP(&f.output, "output", "o", "", "Write binary responses to this file")
}

// options converts the flags into command options.
func (f *requestFlags) options() (domain.CommandOptions, error) {
	opts := domain.CommandOptions{
		ContentType:   f.contentType,
		Partition:     f.partition,
		DistinctField: f.distinctField,
		ImageID:       f.imageID,
		ExpandResult:  f.expand,
	}

	var err error
	if opts.Keywords, err = parsePairs(f.keywords, parseValue); err != nil {
		return opts, err
	}
	if opts.Parameters, err = parsePairs(f.params, parseValue); err != nil {
		return opts, err
	}
	headers, err := parsePairs(f.headers, func(s string) any { return s })
	if err != nil {
		return opts, err
	}
	opts.Headers = stringMap(headers)
	if len(f.data) > 0 {
		data, err := parsePairs(f.data, func(s string) any { return s })
		if err != nil {
			return opts, err
		}
		opts.Data = stringMap(data)
	}
	if opts.Files, err = readFiles(f.files); err != nil {
		return opts, err
	}
	if f.body != "" {
		if opts.Body, err = readBody(f.body); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func parsePairs(pairs []string, convert func(string) any) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", domain.ErrInvalidInput, pair)
		}
		out[key] = convert(value)
	}
	return out, nil
}

// parseValue turns JSON arrays and objects, booleans and integers into
// typed values. Anything else stays a string.
func parseValue(s string) any {
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}

func stringMap(in map[string]any) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = fmt.Sprint(v)
	}
	return out
}

func readBody(arg string) (any, error) {
	raw := []byte(arg)
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading body file: %w", err)
		}
		raw = data
	}
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: body is not valid JSON: %v", domain.ErrInvalidInput, err)
	}
	return body, nil
}

func readFiles(specs []string) ([]domain.File, error) {
	files := make([]domain.File, 0, len(specs))
	for _, spec := range specs {
		field, path, ok := strings.Cut(spec, "=")
		if !ok || field == "" || path == "" {
			return nil, fmt.Errorf("%w: expected field=path, got %q", domain.ErrInvalidInput, spec)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		files = append(files, domain.File{Field: field, Name: filepath.Base(path), Content: content})
	}
	if len(files) == 0 {
		return nil, nil
	}
	return files, nil
}

// writeResponse prints a JSON envelope, or writes a binary payload to
// output (stdout when empty). Non-2xx responses become an error after
// the envelope is printed.
func writeResponse(w io.Writer, resp *domain.Response, output string) error {
	if resp.IsBinary() {
		if output == "" {
			_, err := w.Write(resp.Raw)
			return err
		}
		if err := os.WriteFile(output, resp.Raw, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Fprintf(w, "Wrote %d bytes to %s\n", len(resp.Raw), output)
		return nil
	}

	result := resp.Result()
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	fmt.Fprintln(w, string(data))
	if !result.OK() {
		return fmt.Errorf("request failed with status %d", result.StatusCode)
	}
	return nil
}
