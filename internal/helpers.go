package internal

import (
	"fmt"
	"sort"
	"strings"
)

var rule = strings.Repeat("=", 60)

func pluralize(count int, singular string) string {
	if count != 1 {
		if strings.HasSuffix(singular, "ch") {
			singular = singular + "es"
		} else {
			singular = singular + "s"
		}
	}
	return fmt.Sprintf("%d %s", count, singular)
}

func sortedStrings(values []interface{}) []string {
	list := make([]string, 0, len(values))
	for _, v := range values {
		list = append(list, v.(string))
	}
	sort.Strings(list)
	return list
}
