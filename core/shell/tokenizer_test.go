package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDshTokenizer(t *testing.T) {
	cases := map[string]struct {
		segment string
		want    []string
		err     error
	}{
		"single":              {"ls", []string{"ls"}, nil},
		"args":                {"ls -l -a", []string{"ls", "-l", "-a"}, nil},
		"collapsed-spaces":    {"  echo   a    b  ", []string{"echo", "a", "b"}, nil},
		"quoted":              {`echo "hello   world"`, []string{"echo", "hello   world"}, nil},
		"quoted-empty":        {`echo "" x`, []string{"echo", "", "x"}, nil},
		"unterminated-quote":  {`echo "to the end  `, []string{"echo", "to the end  "}, nil},
		"mid-token-quote":     {`echo a"b"`, []string{"echo", "a", "b"}, nil},
		"quote-after-flag":    {`grep -e"x y" f`, []string{"grep", "-e", "x y", "f"}, nil},
		"token-after-quote":   {`"a"b`, []string{"a", "b"}, nil},
		"tabs-are-not-spaces": {"echo\ta", []string{"echo\ta"}, nil},
		"max-args":            {"a 1 2 3 4 5 6 7", []string{"a", "1", "2", "3", "4", "5", "6", "7"}, nil},
		"too-many-args":       {"a 1 2 3 4 5 6 7 8", nil, ErrTooManyArguments},
		"blank":               {"    ", nil, ErrNoTokens},
		"empty":               {"", nil, ErrNoTokens},
	}

	tokenizer := &DshTokenizer{MaxArgs: 8}
	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, err := tokenizer.Tokenize(tc.segment)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				assert.Nil(t, got)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDshTokenizer_unbounded(t *testing.T) {
	tokenizer := &DshTokenizer{}
	got, err := tokenizer.Tokenize(strings.Repeat("x ", 100))
	assert.Nil(t, err)
	assert.Len(t, got, 100)
}

func TestShlexTokenizer(t *testing.T) {
	cases := map[string]struct {
		segment string
		want    []string
		err     error
	}{
		"args":          {"ls -l", []string{"ls", "-l"}, nil},
		"single-quotes": {"echo 'a b'", []string{"echo", "a b"}, nil},
		"double-quotes": {`echo "a b"`, []string{"echo", "a b"}, nil},
		"escape":        {`echo a\ b`, []string{"echo", "a b"}, nil},
		"unterminated":  {`echo "abc`, nil, ErrUnbalancedQuote},
		"too-many-args": {"a 1 2 3", nil, ErrTooManyArguments},
		"blank":         {"   ", nil, ErrNoTokens},
	}

	tokenizer := &ShlexTokenizer{MaxArgs: 3}
	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, err := tokenizer.Tokenize(tc.segment)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewTokenizer(t *testing.T) {
	assert.IsType(t, &DshTokenizer{}, NewTokenizer(ModeDsh, 8))
	assert.IsType(t, &ShlexTokenizer{}, NewTokenizer(ModePosix, 8))
	assert.IsType(t, &DshTokenizer{}, NewTokenizer("unknown", 8))
}

func TestQuoteRules_splitSegments(t *testing.T) {
	cases := map[string]struct {
		mode TokenizerMode
		line string
		want []string
	}{
		"no-pipe":           {ModeDsh, "ls -l", []string{"ls -l"}},
		"two":               {ModeDsh, "ls | wc", []string{"ls ", " wc"}},
		"empty-ends":        {ModeDsh, "|", []string{"", ""}},
		"quoted-pipe":       {ModeDsh, `echo "a|b" | wc`, []string{`echo "a`, `b" `, " wc"}},
		"mid-token-quote":   {ModeDsh, `echo a"|"b`, []string{`echo a"`, `"b`}},
		"single-is-literal": {ModeDsh, `echo 'a|b'`, []string{`echo 'a`, `b'`}},
		"posix-single":      {ModePosix, `echo 'a|b' | wc`, []string{`echo 'a|b' `, " wc"}},
		"posix-escape":      {ModePosix, `echo a\|b`, []string{`echo a\|b`}},
		"posix-escaped-dq":  {ModePosix, `echo "a\"|b" | wc`, []string{`echo "a\"|b" `, " wc"}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.want, quoteRulesFor(tc.mode).splitSegments(tc.line, PipeChar))
		})
	}
}

func TestQuoteRules_trim(t *testing.T) {
	rules := quoteRulesFor(ModeDsh)
	assert.Equal(t, "ls -l", rules.trim("   ls -l   "))
	assert.Equal(t, `echo "open  `, rules.trim(`  echo "open  `))
	assert.Equal(t, "", rules.trim("     "))
	assert.Equal(t, `echo a"b  `, rules.trim(`echo a"b  `))
	assert.Equal(t, `echo "a b"`, rules.trim(`echo "a b"   `))
}

func TestQuoteRules_segmentCount(t *testing.T) {
	lines := []string{
		`echo "a|b"`,
		`grep "x | y" f`,
		`echo "open | wc`,
		"a | b | c",
		"||",
	}

	rules := quoteRulesFor(ModeDsh)
	for _, line := range lines {
		want := strings.Count(line, "|") + 1
		assert.Len(t, rules.splitSegments(line, PipeChar), want, "line %q", line)
	}
}
