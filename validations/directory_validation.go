package validations

import (
	"context"

	pkgError "github.com/AzielCF/az-sched/pkg/error"
	"github.com/AzielCF/az-sched/scheduler/domain"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func ValidateContact(ctx context.Context, request domain.Contact) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Name, validation.Required),
		validation.Field(&request.PhoneNumber, validation.Required, validation.Length(8, 20)),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidateGroup(ctx context.Context, request domain.Group) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Name, validation.Required),
		validation.Field(&request.GroupID, validation.Required),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidateTemplate(ctx context.Context, request domain.MessageTemplate) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Title, validation.Required),
		validation.Field(&request.MediaType, validation.In(
			domain.MediaText, domain.MediaImage, domain.MediaDocument, domain.MediaAudio,
		)),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	switch request.MediaType {
	case domain.MediaText, "":
		if request.Content == "" {
			return pkgError.ValidationError("content is required for text templates")
		}
	default:
		if request.MediaPath == "" {
			return pkgError.ValidationError("media_path is required for media templates")
		}
	}
	return nil
}
