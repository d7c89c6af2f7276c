package telemetry

import (
	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GinMiddleware returns the otelgin middleware when telemetry is enabled,
// otherwise a pass-through handler so route registration stays unconditional.
func (tp *TracerProvider) GinMiddleware() gin.HandlerFunc {
	if !tp.IsEnabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(tp.config.ServiceName)
}

// InstrumentGorm registers the otelgorm plugin with the given GORM DB instance.
// Query variables are always excluded from spans; page configurations can
// contain merchant data that must not leak into traces.
func (tp *TracerProvider) InstrumentGorm(db *gorm.DB, dbName string) error {
	if !tp.IsEnabled() {
		tp.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName(dbName),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return err
	}

	tp.logger.Info("Database tracing enabled", zap.String("db_name", dbName))
	return nil
}
