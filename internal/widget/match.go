package widget

import "github.com/MrSnakeDoc/webring/internal/logger"

// MatchCategories reconciles requested categories with the ones advertised by
// the remote index.
//
// An empty request selects the first available category so that the widget
// shows something whenever the index is non-empty. Otherwise every requested
// entry present in available is kept in request order (duplicates included)
// and every unknown entry is dropped and logged.
func MatchCategories(requested, available []string, log logger.Logger) []string {
	if len(requested) == 0 {
		if len(available) == 0 {
			return []string{}
		}
		log.Info("no categories specified, using first available category",
			logger.String("category", available[0]))
		return []string{available[0]}
	}

	known := make(map[string]struct{}, len(available))
	for _, c := range available {
		known[c] = struct{}{}
	}

	valid := make([]string, 0, len(requested))
	for _, c := range requested {
		if _, ok := known[c]; ok {
			valid = append(valid, c)
			continue
		}
		log.Error("category does not exist in the webring data",
			logger.String("category", c),
			logger.Strings("available", available))
	}
	return valid
}
