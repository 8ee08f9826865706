// Response unwrapping for Spotify JSON payloads
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/spotrec/internal/shared"
)

// Shape names the layout of a response body and where its list lives.
type Shape int

const (
	ShapeArtistSearch    Shape = iota + 1 // artists.items
	ShapeTrackSearch                      // tracks.items
	ShapeTopTracks                        // tracks
	ShapeRecommendations                  // tracks
	ShapeRelatedArtists                   // artists
	ShapeArtistProfile                    // genres, optional
)

type shapeSpec struct {
	name     string
	path     []string
	optional bool // absent final field yields an empty result
}

var shapes = map[Shape]shapeSpec{
	ShapeArtistSearch:    {name: "artist-search", path: []string{"artists", "items"}},
	ShapeTrackSearch:     {name: "track-search", path: []string{"tracks", "items"}},
	ShapeTopTracks:       {name: "top-tracks", path: []string{"tracks"}},
	ShapeRecommendations: {name: "recommendations", path: []string{"tracks"}},
	ShapeRelatedArtists:  {name: "related-artists", path: []string{"artists"}},
	ShapeArtistProfile:   {name: "artist-profile", path: []string{"genres"}, optional: true},
}

func (s Shape) String() string {
	if spec, ok := shapes[s]; ok {
		return spec.name
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// Path returns the dotted path of the list inside the response.
func (s Shape) Path() string {
	return strings.Join(shapes[s].path, ".")
}

// Extraction is the list found at a shape's path.
//
// Diagnostic explains an empty result and is blank otherwise.
type Extraction[T any] struct {
	Items      []T
	Diagnostic string
}

// Empty reports whether nothing was extracted.
func (e Extraction[T]) Empty() bool { return len(e.Items) == 0 }

// Extract decodes the list at shape's path from body.
//
// A well-formed empty or null list is not an error. Invalid JSON, a missing required field, a non-object container or a non-array list returns [shared.ErrMalformedResponse].
func Extract[T any](body []byte, shape Shape) (Extraction[T], error) {
	spec, ok := shapes[shape]
	if !ok {
		return Extraction[T]{}, fmt.Errorf("%w: unknown response shape %d", shared.ErrInvalidArgument, int(shape))
	}

	node := json.RawMessage(body)
	for i, key := range spec.path {
		at := "response"
		if i > 0 {
			at = strings.Join(spec.path[:i], ".")
		}

		var obj map[string]json.RawMessage
		if err := json.Unmarshal(node, &obj); err != nil {
			return Extraction[T]{}, fmt.Errorf("%w: %s: expected object at %s: %v", shared.ErrMalformedResponse, spec.name, at, err)
		}
		if obj == nil {
			return Extraction[T]{}, fmt.Errorf("%w: %s: %s is null", shared.ErrMalformedResponse, spec.name, at)
		}

		next, found := obj[key]
		if !found {
			if spec.optional && i == len(spec.path)-1 {
				return Extraction[T]{Diagnostic: fmt.Sprintf("%s: field %s absent", spec.name, shape.Path())}, nil
			}
			return Extraction[T]{}, fmt.Errorf("%w: %s: missing field %s", shared.ErrMalformedResponse, spec.name, strings.Join(spec.path[:i+1], "."))
		}
		node = next
	}

	trimmed := bytes.TrimSpace(node)
	if bytes.Equal(trimmed, []byte("null")) {
		return Extraction[T]{Diagnostic: fmt.Sprintf("%s: %s is null", spec.name, shape.Path())}, nil
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return Extraction[T]{}, fmt.Errorf("%w: %s: %s is not a list", shared.ErrMalformedResponse, spec.name, shape.Path())
	}

	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return Extraction[T]{}, fmt.Errorf("%w: %s: %v", shared.ErrMalformedResponse, spec.name, err)
	}

	if len(items) == 0 {
		return Extraction[T]{Diagnostic: fmt.Sprintf("%s: no items", spec.name)}, nil
	}
	return Extraction[T]{Items: items}, nil
}
