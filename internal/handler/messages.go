package handler

// User-facing texts, in the language of the booking site.
const (
	msgNoScheduleFound     = "Розклад за вказаним напрямком не знайдено."
	msgScheduleUnavailable = "Виникла помилка при завантаженні розкладу."
	msgBoardUnavailable    = "Не вдалося завантажити табло."
	msgRouteUnavailable    = "Не вдалося завантажити деталі маршруту."
	msgLayoutUnavailable   = "Не вдалося завантажити структуру потяга."
	msgNoSeatMap           = "Спочатку оберіть поїзд."
	msgSeatUnavailable     = "Це місце недоступне."
	msgSelectionLimit      = "Ви можете вибрати не більше 4 квитків в одному замовленні."
	msgNoSeatsSelected     = "Ви ще не обрали жодного місця. Будь ласка, виберіть місця перед тим, як перейти до оформлення квитків."
	msgCheckoutNotFound    = "Замовлення не знайдено або його термін дії минув."
	msgAuthRequired        = "Будь ласка, увійдіть в систему, щоб продовжити."
	msgTicketsAuthRequired = "Будь ласка, увійдіть в систему, щоб переглянути свої квитки."
	msgPurchaseFailed      = "Сталася помилка під час оформлення замовлення."
	msgPurchaseConfirmed   = "Замовлення успішне! Шукайте квитки на електронній пошті, а також у розділі \"Мої квитки\"."
	msgTicketsUnavailable  = "Сталася помилка при завантаженні квитків."
	msgNoTickets           = "У вас немає придбаних квитків."
	msgConfirmReturn       = "Ви впевнені, що хочете повернути цей квиток?"
	msgReturnFailed        = "Сталася помилка при поверненні квитка."
	msgTicketNotFound      = "Квиток не знайдено."
	msgNotReturnable       = "Цей квиток вже не можна повернути."
	msgReturned            = "Квиток успішно повернено."
	msgDocumentFailed      = "Не вдалося завантажити PDF квитка."
	msgSuperseded          = "Запит замінено новішим."
	msgForbidden           = "Доступ лише для адміністраторів."
	msgPatternNotFound     = "Потяг з номером \"%s\" не знайдено."
	msgNoReportData        = "Немає даних для цього діапазону дат"
	msgRegistered          = "Реєстрація успішна!"
)

const (
	codeValidation       = "validation_error"
	codeInvalidRequest   = "invalid_request"
	codeScheduleUnavail  = "schedule_unavailable"
	codeBoardUnavail     = "board_unavailable"
	codeRouteUnavail     = "route_unavailable"
	codeLayoutUnavail    = "layout_unavailable"
	codeNoSeatMap        = "no_seat_map"
	codeSeatUnavailable  = "seat_unavailable"
	codeCheckoutNotFound = "checkout_not_found"
	codePurchaseFailed   = "purchase_failed"
	codeTicketsUnavail   = "tickets_unavailable"
	codeConfirmRequired  = "confirmation_required"
	codeReturnFailed     = "return_failed"
	codeTicketNotFound   = "ticket_not_found"
	codeNotReturnable    = "ticket_not_returnable"
	codeDocumentFailed   = "document_unavailable"
	codeSuperseded       = "superseded"
	codeForbidden        = "forbidden"
	codeBackendError     = "backend_error"
	codeLoginFailed      = "login_failed"
	codeRegisterFailed   = "register_failed"
	codePatternNotFound  = "pattern_not_found"
	codeInternal         = "internal_error"
)
