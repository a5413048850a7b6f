package providers

import (
	"github.com/pulseboard/pulseboard/internal/providers/email"
	"github.com/pulseboard/pulseboard/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	email.Module,
	pdf.Module,
)
