package model

import (
	"bytes"
	"encoding/json"
)

// User is a registered account as stored in the document. The id is the
// creation time in Unix milliseconds.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// Identity is the authenticated subject decoded from a bearer token.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Server-owned post fields. Everything else in a post belongs to the caller.
const (
	PostFieldID     = "id"
	PostFieldAuthor = "authorId"
)

// Post is a schemaless JSON object: id and authorId plus whatever fields the
// creating request supplied.
type Post map[string]any

func (p Post) ID() string {
	s, _ := p[PostFieldID].(string)
	return s
}

// AuthorID tolerates the three number representations a post can carry:
// int64 when built in process, json.Number when decoded from the document,
// float64 when bound from a request body.
func (p Post) AuthorID() int64 {
	switch v := p[PostFieldAuthor].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// Clone deep-copies the post so callers can hold it outside the store lock.
func (p Post) Clone() Post {
	if p == nil {
		return nil
	}
	out := make(Post, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	default:
		// Strings, numbers, bools and nil are immutable.
		return v
	}
}

// PostPage is one page of the posts listing.
type PostPage struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Total int    `json:"total"`
	Data  []Post `json:"data"`
}

// Document is the root object and the sole unit of persistence: every read
// loads it whole, every write rewrites it whole.
type Document struct {
	Users []User          `json:"users"`
	Posts map[string]Post `json:"posts"`
}

func NewDocument() *Document {
	return &Document{
		Users: []User{},
		Posts: map[string]Post{},
	}
}

// Normalize replaces nil collections with empty ones so an encoded document
// always carries both keys.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Posts == nil {
		d.Posts = map[string]Post{}
	}
}

func (d *Document) Clone() *Document {
	out := &Document{
		Users: append([]User(nil), d.Users...),
		Posts: make(map[string]Post, len(d.Posts)),
	}
	for id, p := range d.Posts {
		out.Posts[id] = p.Clone()
	}
	out.Normalize()
	return out
}

// DecodeDocument parses a stored document. Numbers are kept as json.Number so
// that encoding again reproduces the stored bytes.
func DecodeDocument(b []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	doc.Normalize()
	return &doc, nil
}

// EncodeDocument renders the document the way it is kept on disk.
func EncodeDocument(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
