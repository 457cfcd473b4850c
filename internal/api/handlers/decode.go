package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
)

// maxBodyBytes ограничение на размер тела запроса (1 MB)
const maxBodyBytes = 1 << 20

// DecodeJSON декодирует тело запроса в dst
// Неизвестные поля и мусор после JSON считаются ошибкой
func DecodeJSON(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return err
	}

	// Тело должно содержать ровно один JSON объект
	if decoder.More() {
		return errors.New("request body must contain a single JSON object")
	}

	return nil
}
