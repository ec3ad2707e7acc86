package service

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/dpool/utils"
)

// Save renders a request/response pair as a markdown example. Files are only
// written when API_EXAMPLES_PATH is set.
func Save(response *apitest.Response, title, description string) {

	examplesPath := os.Getenv("API_EXAMPLES_PATH")
	if examplesPath == "" {
		return
	}

	request := response.Request

	query := request.URL.RawQuery
	if query != "" {
		query = "?" + query
	}

	s := &strings.Builder{}

	fmt.Fprintf(s, "# %s\n", title)
	fmt.Fprintf(s, "%s\n", cropTabs(description))

	// curl
	s.WriteString("Curl example:\n\n```sh\ncurl ")
	if request.Method != "GET" {
		s.WriteString("-X " + request.Method + " ")
	}
	fmt.Fprintf(s, "\"https://example.com%s%s\"", request.URL.Path, query)
	for _, k := range utils.SortedKeys(request.Header) {
		for _, v := range request.Header[k] {
			fmt.Fprintf(s, " \\\n-H \"%s: %s\"", k, v)
		}
	}
	if requestBody := formatJSON(response.BodyRequestString()); requestBody != "" {
		fmt.Fprintf(s, " \\\n-d '%s'", requestBody)
	}
	s.WriteString("\n```\n\n\n")

	// raw http
	s.WriteString("HTTP request/response example:\n\n```http\n")
	fmt.Fprintf(s, "%s %s%s %s\n", request.Method, request.URL.Path, query, request.Proto)
	s.WriteString("Host: example.com\n")
	for _, k := range utils.SortedKeys(request.Header) {
		for _, v := range request.Header[k] {
			fmt.Fprintf(s, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(s, "\n%s\n\n", formatJSON(response.BodyRequestString()))

	fmt.Fprintf(s, "%s %s\n", response.Proto, response.Status)
	for _, k := range utils.SortedKeys(response.Header) {
		if k == "Date" {
			s.WriteString("Date: Mon, 15 Aug 2022 02:08:13 GMT\n")
			continue
		}
		for _, v := range response.Header[k] {
			fmt.Fprintf(s, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(s, "\n%s\n```\n\n\n", formatJSON(response.BodyString()))

	filename := strings.ReplaceAll(strings.ToLower(title), " ", "_") + ".md"
	p := path.Join(examplesPath, path.Clean(filename))
	fmt.Println("Saving", p)
	if err := os.WriteFile(p, []byte(s.String()), 0666); err != nil {
		fmt.Println("Saving err:", err)
	}
}

// formatJSON indents body when it is a single JSON value, otherwise it is
// returned untouched (empty bodies, JSON lines, plain text).
func formatJSON(body string) string {

	v := jsontext.Value(strings.TrimSpace(body))
	if !v.IsValid() {
		return body
	}
	if err := v.Indent(jsontext.WithIndent("    ")); err != nil {
		return body
	}

	return string(v)
}

// cropTabs removes the common tab indentation of a raw string literal.
func cropTabs(d string) string {

	lines := strings.Split(d, "\n")

	minTabs := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, "\t"))
		if minTabs < 0 || n < minTabs {
			minTabs = n
		}
	}
	if minTabs <= 0 {
		return strings.TrimSpace(d)
	}

	prefix := strings.Repeat("\t", minTabs)
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
