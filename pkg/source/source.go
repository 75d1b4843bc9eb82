// Package source loads the flat record list a grid session is built from.
package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mholzen/treegrid/pkg/rowmodel"
)

// Options configures Open. Only the fields relevant to the chosen source are used.
type Options struct {
	Token         string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string
	CacheFile     string
	CacheTTL      time.Duration
}

// Open resolves a source spec: "sample", a .json file path, an http(s) URL,
// or a neo4j/bolt URI. Remote sources are wrapped in a file cache when
// CacheFile is set.
func Open(spec string, opts Options) (rowmodel.Source, error) {
	spec = strings.TrimSpace(spec)

	var src rowmodel.Source
	switch {
	case spec == "" || spec == "sample":
		return Sample(), nil
	case strings.HasPrefix(spec, "http://"), strings.HasPrefix(spec, "https://"):
		var httpOpts []HTTPOption
		if opts.Token != "" {
			httpOpts = append(httpOpts, WithBearerToken(opts.Token))
		}
		src = NewHTTPSource(spec, httpOpts...)
	case isNeo4jURI(spec):
		neo, err := NewNeo4jSource(Neo4jConfig{
			URI:      spec,
			Username: opts.Neo4jUser,
			Password: opts.Neo4jPassword,
			Database: opts.Neo4jDatabase,
		})
		if err != nil {
			return nil, err
		}
		src = neo
	case strings.HasSuffix(spec, ".json"):
		return FileSource(ExpandTilde(spec)), nil
	default:
		return nil, fmt.Errorf("unknown source '%s': use 'sample', a .json file, an http(s) URL or a neo4j URI", spec)
	}

	if opts.CacheFile != "" {
		return Cached(src, ExpandTilde(opts.CacheFile), opts.CacheTTL), nil
	}
	return src, nil
}

func isNeo4jURI(spec string) bool {
	for _, scheme := range []string{"neo4j://", "neo4j+s://", "neo4j+ssc://", "bolt://", "bolt+s://", "bolt+ssc://"} {
		if strings.HasPrefix(spec, scheme) {
			return true
		}
	}
	return false
}

type closer interface {
	Close(ctx context.Context) error
}

// Close releases the resources held by src, if any.
func Close(ctx context.Context, src rowmodel.Source) error {
	if c, ok := src.(closer); ok {
		return c.Close(ctx)
	}
	return nil
}
