package domain

import "errors"

var (
	// Ошибка отсутствующего имени клиента или товара.
	ErrNameRequired = errors.New("name is required")
	// Ошибка отсутствующего email клиента.
	ErrEmailRequired = errors.New("email is required")
	// Ошибка некорректного формата телефона.
	ErrPhoneInvalid = errors.New("invalid phone format")
	// ErrEmailExists возвращается при нарушении уникальности email.
	ErrEmailExists = errors.New("email already exists")
	// Ошибка неположительной цены товара.
	ErrPriceNotPositive = errors.New("price must be positive")
	// Ошибка отрицательного остатка товара.
	ErrStockNegative = errors.New("stock cannot be negative")
	// Ошибка отсутствующего идентификатора клиента в заказе.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка пустого или полностью неразрешимого списка товаров заказа.
	ErrNoValidProducts = errors.New("no valid products")
	// Ошибка, если часть запрошенных идентификаторов товаров не разрешилась.
	ErrProductIDsInvalid = errors.New("one or more product ids invalid")
	// Ошибка несоответствия суммы заказа и цен его товаров.
	ErrTotalMismatch = errors.New("order total does not match product prices")
	// ErrCustomerNotFound возвращается, если клиент не найден в репозитории.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrProductNotFound возвращается, если товар не найден в репозитории.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")

	// Ошибка отсутствующего ключа идемпотентности.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	// Ошибка отсутствующего хэша запроса для ключа идемпотентности.
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	// ErrIdempotencyHashMismatch — ключ уже использован с другим телом запроса.
	ErrIdempotencyHashMismatch = errors.New("idempotency key used with different request")
	// ErrIdempotencyKeyAlreadyExists — запись с таким ключом уже создана.
	ErrIdempotencyKeyAlreadyExists = errors.New("idempotency key already exists")
	// ErrIdempotencyKeyNotFound — запись с таким ключом отсутствует.
	ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")
)

// IsConflict проверяет, относится ли ошибка к нарушениям уникальности.
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailExists)
}

// IsInvalid проверяет, относится ли ошибка к некорректным входным данным.
func IsInvalid(err error) bool {
	for _, target := range []error{
		ErrNameRequired,
		ErrEmailRequired,
		ErrPhoneInvalid,
		ErrPriceNotPositive,
		ErrStockNegative,
		ErrCustomerRequired,
		ErrNoValidProducts,
		ErrProductIDsInvalid,
		ErrTotalMismatch,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound проверяет, относится ли ошибка к отсутствующим сущностям.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}
