package slideshow

import (
	"encoding/json"
	"fmt"
	"io"
)

// Encode writes post as indented JSON.
func Encode(w io.Writer, post Post) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(post); err != nil {
		return fmt.Errorf("encode post: %w", err)
	}
	return nil
}

// Decode reads a post record.
func Decode(r io.Reader) (Post, error) {
	var post Post
	dec := json.NewDecoder(r)
	if err := dec.Decode(&post); err != nil {
		return Post{}, fmt.Errorf("decode post: %w", err)
	}
	return post, nil
}
