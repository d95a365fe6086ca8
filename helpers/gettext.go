package helpers

import (
	_ "embed"
	"fmt"
	"math/rand"
	"strings"

	"github.com/Jeffail/gabs"
)

//go:embed assets/i18n.json
var translationsFile []byte

var translations *gabs.Container

func LoadTranslations() {
	json, err := gabs.ParseJSON(translationsFile)
	Relax(err)

	translations = json
}

func GetText(id string) string {
	if translations == nil || !translations.ExistsP(id) {
		return id
	}

	item := translations.Path(id)

	// If this is an object return __
	if strings.HasPrefix(item.String(), "{") {
		item = item.Path("__")
	}

	// If this is an array return a random item
	if arr, ok := item.Data().([]interface{}); ok && len(arr) > 0 {
		text, _ := arr[rand.Intn(len(arr))].(string)
		return text
	}

	text, ok := item.Data().(string)
	if !ok {
		return id
	}
	return text
}

func GetTextF(id string, replacements ...interface{}) string {
	return fmt.Sprintf(GetText(id), replacements...)
}
