package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/service/crm"
)

// Handler отвечает за HTTP JSON API поверх CRM-сервиса.
type Handler struct {
	service     *crm.Service
	idempotency domain.IdempotencyRepository
	logger      *log.Entry
}

// Options задаёт опциональные зависимости HTTP-слоя.
type Options struct {
	Logger      *log.Entry
	Idempotency domain.IdempotencyRepository
}

// Option настраивает Handler.
type Option func(*Options)

// WithLogger задаёт logger для HTTP-слоя.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithIdempotency включает поддержку заголовка Idempotency-Key
// на мутирующих маршрутах.
func WithIdempotency(repo domain.IdempotencyRepository) Option {
	return func(opts *Options) {
		opts.Idempotency = repo
	}
}

// NewHandler создаёт HTTP-обработчик CRM API.
func NewHandler(service *crm.Service, options ...Option) *Handler {
	opts := Options{}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New().WithField("component", "http-api")
	}

	return &Handler{
		service:     service,
		idempotency: opts.Idempotency,
		logger:      logger,
	}
}

// Routes собирает маршруты API.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.idempotencyMiddleware)
			r.Post("/customers", h.createCustomer)
			r.Post("/customers/bulk", h.bulkCreateCustomers)
			r.Post("/products", h.createProduct)
			r.Post("/orders", h.createOrder)
		})

		r.Get("/customers", h.listCustomers)
		r.Get("/products", h.listProducts)
		r.Get("/orders", h.listOrders)
	})

	return r
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		h.logger.WithFields(log.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		}).Info("http request handled")
	})
}
