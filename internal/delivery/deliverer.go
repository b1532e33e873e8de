package delivery

import (
	"context"
	"log/slog"

	"clipforge/internal/logging"
	"clipforge/internal/refs"
	"clipforge/internal/services"
)

// Deliverer hands a finished conversion to the user.
type Deliverer struct {
	refs   *refs.Registry
	saver  Saver
	logger *slog.Logger
}

// NewDeliverer builds a Deliverer. A nil registry gets a private one.
func NewDeliverer(registry *refs.Registry, saver Saver, logger *slog.Logger) *Deliverer {
	if registry == nil {
		registry = refs.NewRegistry()
	}
	return &Deliverer{
		refs:   registry,
		saver:  saver,
		logger: logging.NewComponentLogger(logger, "delivery"),
	}
}

// Deliver wraps data in a transient reference, saves it under name and
// releases the reference. It returns the saved location.
func (d *Deliverer) Deliver(ctx context.Context, data []byte, mimeType, name string) (string, error) {
	if d.saver == nil {
		return "", services.Wrap(services.ErrDelivery, "delivery", "deliver", "no saver configured", nil)
	}
	url := d.refs.Create(data, mimeType)
	defer d.refs.Revoke(url)

	location, err := d.saver.Save(ctx, name, data)
	if err != nil {
		d.logger.Warn("delivery failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "delivery_failed"),
			logging.String(logging.FieldErrorHint, "check paths.output_dir is writable"),
			logging.String("output", name),
		)
		return "", services.Wrap(services.ErrDelivery, "delivery", "save", name, err)
	}
	d.logger.Info("output delivered",
		logging.String(logging.FieldEventType, "output_delivered"),
		logging.String("output", name),
		logging.String("mime_type", mimeType),
		logging.String("location", location),
		logging.Int("bytes", len(data)),
	)
	return location, nil
}
