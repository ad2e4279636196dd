package messaging

import "encoding/json"

// envelope carries headers for brokers whose messages are a bare body.
type envelope struct {
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"body"`
}

func wrapEnvelope(msg OutgoingMessage) ([]byte, error) {
	env := envelope{Body: msg.Body}
	if len(msg.Headers) > 0 {
		env.Headers = make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			if h.Key == "" {
				continue
			}
			env.Headers[h.Key] = string(h.Value)
		}
	}
	return json.Marshal(env)
}

// unwrapEnvelope returns raw unchanged when it was not published as an envelope.
func unwrapEnvelope(raw []byte) ([]byte, []Header) {
	var env struct {
		Headers map[string]string `json:"headers"`
		Body    *[]byte           `json:"body"`
	}
	if err := json.Unmarshal(raw, &env); err != nil || env.Body == nil {
		return raw, nil
	}
	return *env.Body, headersFromMap(env.Headers)
}

func headersFromMap(m map[string]string) []Header {
	if len(m) == 0 {
		return nil
	}
	out := make([]Header, 0, len(m))
	for k, v := range m {
		out = append(out, Header{Key: k, Value: []byte(v)})
	}
	return out
}

func headersToMap(headers []Header) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		if h.Key == "" {
			continue
		}
		out[h.Key] = string(h.Value)
	}
	return out
}
