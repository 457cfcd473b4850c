package get_available_slots

import (
	"time"

	"github.com/bookwell/appointment-service/pkg/types"
)

// Request модель запроса на получение слотов
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	StaffID    *int64    // ID сотрудника (nil - без закрепления за сотрудником)
	Date       time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов
// Список полный: недоступные слоты тоже возвращаются с available=false,
// клиент отрисовывает оба состояния
type Response struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	StaffID    *int64    // ID сотрудника, если был указан
	Date       time.Time // Дата, на которую запрашивались слоты
	Slots      []Slot    // Список слотов в хронологическом порядке
}

// Slot модель временного слота
type Slot struct {
	StartTime types.TimeString // Время начала слота (например, "10:00")
	Available bool             // Доступен ли слот для записи
}
