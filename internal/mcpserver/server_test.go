package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/homepage/internal/index"
	"github.com/starford/homepage/internal/models"
	"github.com/starford/homepage/internal/storage"
	"github.com/starford/homepage/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	lib, _, dir := testutil.TestLibrary(t, testutil.SampleData())
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return New(lib, store)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no in-process call helper, so handlers are invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_books":
		result, err = srv.listBooks(ctx, req)
	case "list_inspiration":
		result, err = srv.listInspiration(ctx, req)
	case "search_records":
		result, err = srv.searchRecords(ctx, req)
	case "list_data_files":
		result, err = srv.listDataFiles(ctx, req)
	case "read_data_file":
		result, err = srv.readDataFile(ctx, req)
	case "get_csv_contract":
		result, err = srv.getCSVContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListBooks_SortModes(t *testing.T) {
	srv := testServer(t)

	cases := map[string]string{
		"":           "Dune",
		"date-desc":  "Piranesi",
		"rating-asc": "Untitled",
	}
	for mode, first := range cases {
		args := map[string]interface{}{}
		if mode != "" {
			args["sort"] = mode
		}
		r := callTool(t, srv, "list_books", args)
		var books []bookLine
		if err := json.Unmarshal([]byte(resultText(r)), &books); err != nil {
			t.Fatalf("sort %q: %v", mode, err)
		}
		if len(books) != 4 || books[0].Title != first {
			t.Errorf("sort %q: first = %+v, want %s", mode, books, first)
		}
	}
}

func TestListBooks_Placeholders(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "list_books", map[string]interface{}{"sort": "rating-desc"})
	text := resultText(r)
	for _, want := range []string{"Unknown Author", "Unknown date", "☆☆☆☆☆", "★★★★★"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestListInspiration(t *testing.T) {
	srv := testServer(t)
	var links []models.InspirationRecord
	if err := json.Unmarshal([]byte(resultText(callTool(t, srv, "list_inspiration", nil))), &links); err != nil {
		t.Fatal(err)
	}
	if len(links) != 2 || links[0].URL != "https://go.dev" {
		t.Errorf("links = %+v", links)
	}
}

func TestSearchRecords(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_records", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error without query")
	}

	r = callTool(t, srv, "search_records", map[string]interface{}{"query": "go.dev"})
	var results []index.SearchResult
	if err := json.Unmarshal([]byte(resultText(r)), &results); err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Kind != index.KindInspiration {
		t.Errorf("results = %+v", results)
	}
}

func TestDataFiles(t *testing.T) {
	srv := testServer(t)

	text := resultText(callTool(t, srv, "list_data_files", nil))
	if !strings.Contains(text, "books.csv\tbooks") {
		t.Errorf("list = %q", text)
	}

	r := callTool(t, srv, "read_data_file", map[string]interface{}{"name": "books.csv"})
	if resultText(r) != testutil.BooksCSV {
		t.Errorf("read = %q", resultText(r))
	}

	r = callTool(t, srv, "read_data_file", map[string]interface{}{"name": "nope.csv"})
	if !r.IsError {
		t.Error("expected error for missing file")
	}
}

func TestCSVContract(t *testing.T) {
	srv := testServer(t)
	text := resultText(callTool(t, srv, "get_csv_contract", nil))
	if text != CSVFormatContract {
		t.Error("contract tool should return the contract")
	}

	contents, err := srv.readContractResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(contents) != 1 {
		t.Fatalf("resource = %v, %v", contents, err)
	}
	if tc, ok := contents[0].(mcp.TextResourceContents); !ok || tc.URI != contractURI {
		t.Errorf("resource contents = %+v", contents[0])
	}
}
