package diag

import (
	"log"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.English,
	language.French,
	language.German,
	language.Italian,
}

var matcher = language.NewMatcher(supported)

// Language picks the message language. A configured language wins, then the
// user's locales in order of preference. English is the fallback.
func Language(configured string) language.Tag {
	var tags []language.Tag
	if configured != "" {
		lang, err := language.Parse(configured)
		if err != nil {
			log.Printf("Could not parse language %q - ignoring: %v.", configured, err)
		} else {
			tags = append(tags, lang)
		}
	}
	if len(tags) == 0 {
		locs, err := locale.GetLocales()
		if err != nil {
			log.Printf("Could not detect locales - working without: %v.", err)
		}
		for _, loc := range locs {
			lang, err := language.Parse(loc)
			if err != nil {
				continue
			}
			tags = append(tags, lang)
		}
	}
	if len(tags) == 0 {
		return language.English
	}
	_, index, _ := matcher.Match(tags...)
	return supported[index]
}
