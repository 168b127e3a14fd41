// Package i18n holds the static translation table for the leaderboard page.
//
// Every language is a Labels value written as an unkeyed composite literal,
// so adding a key to Labels without translating it everywhere does not compile.
package i18n

// Labels is the full set of static strings shown on the page.
type Labels struct {
	Title               string `json:"title"`
	Search              string `json:"search"`
	GamerName           string `json:"gamer_name"`
	League              string `json:"league"`
	Maps                string `json:"maps"`
	Wins                string `json:"wins"`
	Losses              string `json:"losses"`
	WinPercentage       string `json:"win_percentage"`
	Season              string `json:"season"`
	SortByWinPercentage string `json:"sort_by_win_percentage"`
	LightMode           string `json:"light_mode"`
	DarkMode            string `json:"dark_mode"`
	Footer              string `json:"footer"`
}

// Headers returns the six column headers in display order.
func (l Labels) Headers() [6]string {
	return [6]string{l.GamerName, l.League, l.Maps, l.Wins, l.Losses, l.WinPercentage}
}

// ModeToggle returns the caption of the theme button: it names the mode the
// button switches to.
func (l Labels) ModeToggle(dark bool) string {
	if dark {
		return l.LightMode
	}
	return l.DarkMode
}

var table = map[Language]Labels{
	English: {
		"League Leaderboard",
		"Search players...",
		"Gamer Name",
		"League",
		"Maps",
		"Wins",
		"Losses",
		"Win %",
		"Season",
		"Sort by Win %",
		"Light Mode",
		"Dark Mode",
		"Made with ❤️ in the USA",
	},
	French: {
		"Classement de la Ligue",
		"Rechercher des joueurs...",
		"Nom du joueur",
		"Ligue",
		"Nombre de cartes",
		"Victoires",
		"Défaites",
		"% de victoire",
		"Saison",
		"Trier par victoires",
		"Mode Clair",
		"Mode Sombre",
		"Fait avec ❤️ aux USA",
	},
	Spanish: {
		"Clasificación de la Liga",
		"Buscar jugadores...",
		"Nombre del jugador",
		"Liga",
		"Cantidad de mapas",
		"Victorias",
		"Derrotas",
		"% de victorias",
		"Temporada",
		"Ordenar por victorias",
		"Modo Claro",
		"Modo Oscuro",
		"Hecho con ❤️ en los EE.UU.",
	},
	Arabic: {
		"لوحة المتصدرين في الدوري",
		"البحث عن اللاعبين...",
		"اسم اللاعب",
		"الدوري",
		"عدد الخرائط",
		"الانتصارات",
		"الخسائر",
		"% الفوز",
		"الموسم",
		"الترتيب حسب الانتصارات",
		"وضع الفاتح",
		"وضع الداكن",
		"صنع بحب ❤️ في الولايات المتحدة الأمريكية",
	},
}

// Lookup returns the labels for lang. Unknown languages get English.
func Lookup(lang Language) Labels {
	if l, ok := table[lang]; ok {
		return l
	}
	return table[DefaultLanguage]
}
