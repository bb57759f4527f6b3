package domain

// CustomerRepository описывает требования к хранилищу клиентов.
type CustomerRepository interface {
	// Create сохраняет нового клиента. Возвращает ErrEmailExists,
	// если email уже занят (в том числе при конкурентной вставке).
	Create(customer Customer) error
	// Get возвращает клиента по идентификатору или ErrCustomerNotFound.
	Get(id string) (Customer, error)
	// EmailExists сообщает, занят ли email.
	EmailExists(email string) (bool, error)
	// List возвращает клиентов по фильтру в стабильном порядке (created_at, id).
	List(filter CustomerFilter) ([]Customer, error)
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	Create(product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(id string) (Product, error)
	// GetByIDs возвращает разрешённый набор: товары, чьи идентификаторы
	// существуют. Повторы во входе схлопываются, порядок — по created_at, id.
	GetByIDs(ids []string) ([]Product, error)
	List(filter ProductFilter) ([]Product, error)
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет заказ вместе со строками ассоциации order-product
	// атомарно: либо записано всё, либо ничего.
	Create(order Order) error
	// Get возвращает заказ с загруженными товарами или ErrOrderNotFound.
	Get(id string) (Order, error)
	List(filter OrderFilter) ([]Order, error)
}
