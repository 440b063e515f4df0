package dom

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
	"github.com/jsamuelsen11/metadata-aggregator/internal/platform/httpclient"
)

func parseFile(path string) (*Item, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parsing %s: document has no root element", path)
	}
	return NewItem(root), nil
}

type filesystemSource struct {
	id   string
	path string
}

// NewFilesystemSource creates a source reading XML documents from a file or,
// for a directory, every .xml file under it in lexical order. A fetch or
// parse failure fails the whole source.
func NewFilesystemSource(id, path string) (pipeline.Source[*etree.Element], error) {
	if id == "" {
		return nil, fmt.Errorf("source id must not be empty")
	}
	if path == "" {
		return nil, fmt.Errorf("source %s: path must not be empty", id)
	}
	return &filesystemSource{id: id, path: path}, nil
}

func (s *filesystemSource) ID() string { return s.id }

func (s *filesystemSource) Execute(ctx context.Context) ([]*Item, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", s.id, err)
	}

	if !info.IsDir() {
		item, err := parseFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", s.id, err)
		}
		return []*Item{item}, nil
	}

	var items []*Item
	err = filepath.WalkDir(s.path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".xml") {
			return nil
		}
		item, err := parseFile(path)
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", s.id, err)
	}
	return items, nil
}

// NewFilesystemSourceStage builds a stage appending the filesystem source's
// documents to the collection.
func NewFilesystemSourceStage(id, path string) (pipeline.Stage[*etree.Element], error) {
	source, err := NewFilesystemSource(id, path)
	if err != nil {
		return nil, err
	}
	return sourceStage(id, source), nil
}

type httpSource struct {
	id     string
	url    string
	client *httpclient.Client
}

// NewHTTPSource creates a source fetching one XML document over HTTP through
// the instrumented client. Fetch and parse failures are fatal for the
// source; the aggregator keeps serving its previous snapshot when a refresh
// fails.
func NewHTTPSource(id, rawURL string, client *httpclient.Client) (pipeline.Source[*etree.Element], error) {
	if id == "" {
		return nil, fmt.Errorf("source id must not be empty")
	}
	if rawURL == "" {
		return nil, fmt.Errorf("source %s: url must not be empty", id)
	}
	if client == nil {
		return nil, fmt.Errorf("source %s: client must not be nil", id)
	}
	return &httpSource{id: id, url: rawURL, client: client}, nil
}

func (s *httpSource) ID() string { return s.id }

func (s *httpSource) Execute(ctx context.Context) ([]*Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("source %s: building request: %w", s.id, err)
	}
	req.Header.Set("Accept", "application/samlmetadata+xml, application/xml, text/xml")

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return nil, fmt.Errorf("source %s: fetching %s: %w", s.id, s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source %s: fetching %s: HTTP %d", s.id, s.url, resp.StatusCode)
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("source %s: parsing %s: %w", s.id, s.url, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("source %s: parsing %s: document has no root element", s.id, s.url)
	}
	return []*Item{NewItem(doc.Root())}, nil
}

// NewHTTPSourceStage builds a stage appending the HTTP source's document to
// the collection.
func NewHTTPSourceStage(id, rawURL string, client *httpclient.Client) (pipeline.Stage[*etree.Element], error) {
	source, err := NewHTTPSource(id, rawURL, client)
	if err != nil {
		return nil, err
	}
	return sourceStage(id, source), nil
}

func sourceStage(id string, source pipeline.Source[*etree.Element]) pipeline.Stage[*etree.Element] {
	return pipeline.NewStage(id, func(ctx context.Context, items *[]*Item) error {
		fetched, err := source.Execute(ctx)
		if err != nil {
			return err
		}
		*items = append(*items, fetched...)
		return nil
	})
}
