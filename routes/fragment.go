package routes

import "net/http"

// FragmentTemplate names the template the fragment route renders.
const FragmentTemplate = "fragment"

const displayName = "Johannes"

func team() []string {
	return []string{"Swampert", "Zoroark", "Torterra"}
}

func events() []Event {
	return []Event{
		NewEvent("Event 1", 100),
		NewEvent("Event 2", 300, "/openair2.png"),
		NewEvent("Event 3", 120),
		NewEvent("Event 4", 200, "/openair2.png"),
	}
}

// HandleRequest builds the attribute mapping for the fragment template.
// Nothing is read from the request; every call returns fresh copies of the
// same literal values.
func HandleRequest(r *http.Request, params map[string]string) (map[string]interface{}, error) {
	return map[string]interface{}{
		"name":   displayName,
		"team":   team(),
		"events": events(),
	}, nil
}

// Fragment is the route controller: the template to render plus its data.
func Fragment(r *http.Request, params map[string]string) (string, map[string]interface{}, error) {
	data, err := HandleRequest(r, params)
	if err != nil {
		return "", nil, err
	}
	return FragmentTemplate, data, nil
}
