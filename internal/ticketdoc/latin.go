package ticketdoc

import "strings"

// Ukrainian national romanization, word-initial forms ignored.
var ukrainianLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "h", 'ґ': "g", 'д': "d", 'е': "e", 'є': "ie",
	'ж': "zh", 'з': "z", 'и': "y", 'і': "i", 'ї': "i", 'й': "i", 'к': "k", 'л': "l",
	'м': "m", 'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch", 'ь': "", 'ю': "iu",
	'я': "ia", 'ы': "y", 'э': "e", 'ё': "io", 'ъ': "", '\'': "", '’': "",
}

func Latin(s string) string {
	var b strings.Builder
	for _, r := range s {
		lower := []rune(strings.ToLower(string(r)))[0]
		repl, ok := ukrainianLatin[lower]
		if !ok {
			if r < 128 {
				b.WriteRune(r)
			} else {
				b.WriteRune('?')
			}
			continue
		}
		if lower != r && repl != "" {
			repl = strings.ToUpper(repl[:1]) + repl[1:]
		}
		b.WriteString(repl)
	}
	return b.String()
}
