package msgcat

import (
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
	"github.com/samber/lo"
	"golang.org/x/text/language"
)

const (
	// LocaleJA is the default locale.
	LocaleJA = "ja"
	// LocaleEN is the secondary locale.
	LocaleEN = "en"
)

// Catalog renders codes into localized text.
type Catalog struct {
	uni      *ut.UniversalTranslator
	fallback ut.Translator
}

// NewCatalog loads the built-in message tables. Unknown defaultLocale values fall
// back to Japanese.
func NewCatalog(defaultLocale string) (*Catalog, error) {
	jaLocale := ja.New()
	uni := ut.New(jaLocale, jaLocale, en.New())

	for locale, texts := range messages {
		trans, found := uni.GetTranslator(locale)
		if !found {
			return nil, fmt.Errorf("msgcat: locale %q is not registered", locale)
		}
		for code, text := range texts {
			if err := trans.Add(code.String(), text, false); err != nil {
				return nil, fmt.Errorf("msgcat: add %s/%s: %w", locale, code, err)
			}
		}
	}

	fallback, _ := uni.GetTranslator(strings.TrimSpace(defaultLocale))

	return &Catalog{uni: uni, fallback: fallback}, nil
}

// Message returns the text for code in the first supported locale, or in the
// default locale when none of the given locales is supported.
func (c *Catalog) Message(code Code, locales ...string) string {
	trans := c.translator(locales...)
	text, err := trans.T(code.String())
	if err != nil {
		return code.String()
	}
	return text
}

// Messages renders a field → code map.
func (c *Catalog) Messages(errs map[string]Code, locales ...string) map[string]string {
	if len(errs) == 0 {
		return nil
	}

	trans := c.translator(locales...)
	out := make(map[string]string, len(errs))
	for key, code := range errs {
		text, err := trans.T(code.String())
		if err != nil {
			text = code.String()
		}
		out[key] = text
	}
	return out
}

func (c *Catalog) translator(locales ...string) ut.Translator {
	if len(locales) == 0 {
		return c.fallback
	}
	if trans, found := c.uni.FindTranslator(locales...); found {
		return trans
	}
	return c.fallback
}

// ParseAcceptLanguage turns an Accept-Language header into locale names ordered by
// preference, each followed by its base language ("en-US" → "en_US", "en").
func ParseAcceptLanguage(header string) []string {
	if strings.TrimSpace(header) == "" {
		return nil
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return nil
	}

	out := make([]string, 0, len(tags)*2)
	for _, tag := range tags {
		out = append(out, strings.ReplaceAll(tag.String(), "-", "_"))
		if base, conf := tag.Base(); conf != language.No {
			out = append(out, base.String())
		}
	}
	return lo.Uniq(out)
}
