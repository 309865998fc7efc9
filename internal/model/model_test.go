package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"flatboard/internal/model"
)

func TestPostAuthorIDRepresentations(t *testing.T) {
	for _, v := range []any{int64(42), 42, float64(42), json.Number("42")} {
		p := model.Post{"authorId": v}
		require.Equal(t, int64(42), p.AuthorID())
	}

	require.Zero(t, model.Post{}.AuthorID())
	require.Zero(t, model.Post{"authorId": "42"}.AuthorID())
}

func TestPostClone(t *testing.T) {
	p := model.Post{
		"id":   "1",
		"tags": []any{"a"},
		"meta": map[string]any{"k": "v"},
	}
	c := p.Clone()

	c["id"] = "2"
	c["tags"].([]any)[0] = "b"
	c["meta"].(map[string]any)["k"] = "w"

	require.Equal(t, "1", p.ID())
	require.Equal(t, "a", p["tags"].([]any)[0])
	require.Equal(t, "v", p["meta"].(map[string]any)["k"])
}

func TestEncodeIsIdempotent(t *testing.T) {
	in := []byte(`{"users":[{"id":1718000000000,"email":"a@example.com","passwordHash":"x"}],` +
		`"posts":{"1718000000001":{"id":"1718000000001","authorId":1718000000000,"rating":4.5,"views":12345678901234}}}`)

	doc, err := model.DecodeDocument(in)
	require.NoError(t, err)
	first, err := model.EncodeDocument(doc)
	require.NoError(t, err)

	doc2, err := model.DecodeDocument(first)
	require.NoError(t, err)
	second, err := model.EncodeDocument(doc2)
	require.NoError(t, err)

	require.Equal(t, string(first), string(second))

	// numbers survive verbatim, not as floats
	post := doc2.Posts["1718000000001"]
	require.Equal(t, json.Number("4.5"), post["rating"])
	require.Equal(t, json.Number("12345678901234"), post["views"])
	require.Equal(t, int64(1718000000000), post.AuthorID())
}

func TestDecodeNormalizesMissingCollections(t *testing.T) {
	doc, err := model.DecodeDocument([]byte(`{}`))
	require.NoError(t, err)
	require.NotNil(t, doc.Users)
	require.NotNil(t, doc.Posts)

	out, err := model.EncodeDocument(doc)
	require.NoError(t, err)
	require.JSONEq(t, `{"users": [], "posts": {}}`, string(out))
}
