package catalog

// Language describes one subtitle language the catalog serves.
type Language struct {
	Code string
	Name string
	Icon string
	ID   int
}

// Languages, ordered as the website's language select box.
var Languages = []Language{
	{Code: "pb", ID: 1, Icon: "icon_brazil.png", Name: "Português-BR"},
	{Code: "en", ID: 2, Icon: "icon_usa.png", Name: "Inglês"},
	{Code: "es", ID: 3, Icon: "flag_es.gif", Name: "Espanhol"},
	{Code: "pt", ID: 10, Icon: "flag_pt.gif", Name: "Português-PT"},
	{Code: "de", ID: 5, Icon: "flag_de.gif", Name: "Alemão"},
	{Code: "ar", ID: 11, Icon: "flag_arabian.gif", Name: "Árabe"},
	{Code: "bg", ID: 15, Icon: "flag_be.gif", Name: "Búlgaro"},
	{Code: "cs", ID: 12, Icon: "flag_czech.gif", Name: "Checo"},
	{Code: "zh", ID: 13, Icon: "flag_china.gif", Name: "Chinês"},
	{Code: "ko", ID: 14, Icon: "flag_korean.gif", Name: "Coreano"},
	{Code: "da", ID: 7, Icon: "flag_denmark.gif", Name: "Dinamarquês"},
	{Code: "fr", ID: 4, Icon: "flag_fr.gif", Name: "Francês"},
	{Code: "it", ID: 16, Icon: "flag_it.gif", Name: "Italiano"},
	{Code: "ja", ID: 6, Icon: "flag_japao.gif", Name: "Japonês"},
	{Code: "no", ID: 8, Icon: "flag_norway.gif", Name: "Norueguês"},
	{Code: "pl", ID: 17, Icon: "flag_poland.gif", Name: "Polonês"},
	{Code: "sv", ID: 9, Icon: "flag_sweden.gif", Name: "Sueco"},
}

var (
	languagesByCode = func() map[string]Language {
		m := make(map[string]Language, len(Languages))
		for _, l := range Languages {
			m[l.Code] = l
		}
		return m
	}()

	languagesByIcon = func() map[string]string {
		m := make(map[string]string, len(Languages))
		for _, l := range Languages {
			m[l.Icon] = l.Code
		}
		return m
	}()
)

// LanguageByCode looks a language up by its two-letter code.
func LanguageByCode(code string) (Language, bool) {
	l, ok := languagesByCode[code]
	return l, ok
}

// languageByIcon maps a flag-icon file name back to a language code.
func languageByIcon(icon string) string {
	return languagesByIcon[icon]
}
