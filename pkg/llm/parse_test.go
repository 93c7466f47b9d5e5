package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dev-123-win/my-shayari-content/pkg/domain"
)

func TestParseResponse(t *testing.T) {
	plain := `{"love":["dil se dil tak"],"sad":["aansu"],"friendship":["yaari"],"attitude":["apna time"],"festival":["holi hai"]}`
	want := domain.Batch{
		domain.CategoryLove:       {"dil se dil tak"},
		domain.CategorySad:        {"aansu"},
		domain.CategoryFriendship: {"yaari"},
		domain.CategoryAttitude:   {"apna time"},
		domain.CategoryFestival:   {"holi hai"},
	}

	t.Run("plain json", func(t *testing.T) {
		assert.Equal(t, want, ParseResponse(plain))
	})

	t.Run("fenced with language tag", func(t *testing.T) {
		assert.Equal(t, ParseResponse(plain), ParseResponse("```json\n"+plain+"\n```"))
	})

	t.Run("fenced with upper case tag and padding", func(t *testing.T) {
		assert.Equal(t, want, ParseResponse("  ```JSON\n"+plain+"\n```  \n"))
	})

	t.Run("fenced without tag", func(t *testing.T) {
		assert.Equal(t, want, ParseResponse("```\n"+plain+"\n```"))
	})

	t.Run("json word inside entries is kept", func(t *testing.T) {
		b := ParseResponse("```json\n{\"love\":[\"json jaisa pyaar\"]}\n```")
		assert.Equal(t, []string{"json jaisa pyaar"}, b[domain.CategoryLove])
	})

	t.Run("prose around object", func(t *testing.T) {
		b := ParseResponse("Here you go:\n" + plain + "\nEnjoy!")
		assert.Equal(t, want, b)
	})

	t.Run("not json at all", func(t *testing.T) {
		b := ParseResponse("Sorry, I can't help with that.")
		assert.Equal(t, domain.NewBatch(), b)
		assert.True(t, b.Empty())
		assert.Len(t, b, 5)
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Equal(t, domain.NewBatch(), ParseResponse(""))
	})

	t.Run("json array instead of object", func(t *testing.T) {
		assert.Equal(t, domain.NewBatch(), ParseResponse(`["a","b"]`))
	})

	t.Run("missing and mistyped categories", func(t *testing.T) {
		b := ParseResponse(`{"love":["a"],"sad":"oops","attitude":[1,2],"extra":["x"]}`)
		assert.Equal(t, []string{"a"}, b[domain.CategoryLove])
		assert.Empty(t, b[domain.CategorySad])
		assert.Empty(t, b[domain.CategoryAttitude])
		assert.Empty(t, b[domain.CategoryFriendship])
		assert.Empty(t, b[domain.CategoryFestival])
		assert.NotContains(t, b, domain.Category("extra"))
	})

	t.Run("entries are trimmed, blanks and markup dropped", func(t *testing.T) {
		b := ParseResponse(`{"love":["  <b>mohabbat</b>  ", "", "   ", "chai & baatein", "<script>x()</script>"]}`)
		assert.Equal(t, []string{"mohabbat", "chai & baatein"}, b[domain.CategoryLove])
	})

	t.Run("plain text with brackets and entities is kept verbatim", func(t *testing.T) {
		b := ParseResponse(`{"sad":["a<b and c>d", "<<love>>", "x &lt; y", "dil <3 tum", "1 < 2 > 0", " tum & main "]}`)
		assert.Equal(t, []string{"a<b and c>d", "<<love>>", "x &lt; y", "dil <3 tum", "1 < 2 > 0", "tum & main"},
			b[domain.CategorySad])
	})
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  plain  ", "plain"},
		{"a<b and c>d", "a<b and c>d"},
		{"<<love>>", "<<love>>"},
		{"x &lt; y", "x &lt; y"},
		{"x & y", "x & y"},
		{"<b>dil</b> &amp; jaan", "dil & jaan"},
		{`<span class="line">pehli</span><br/>doosri`, "pehlidoosri"},
		{"<I>ishq</I>", "ishq"},
		{"  <i>  </i> ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize(tt.in))
		})
	}
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "```json\n{}\n```", want: "{}"},
		{in: "{}", want: "{}"},
		{in: "``` {} ```", want: "{}"},
		{in: "json{}", want: "{}"},
		{in: "  ", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanResponse(tt.in), tt.in)
	}
}
