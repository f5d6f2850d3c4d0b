package bookings_service_api

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/auth"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/service/booking"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

// Server implements BookingsService on top of the booking use case.
type Server struct {
	bookings booking.BookingUseCase
	tokens   TokenParser
}

func NewServer(bookings booking.BookingUseCase, tokens TokenParser) *Server {
	return &Server{bookings: bookings, tokens: tokens}
}

// CreateBooking expects {propertyId, startDate, endDate} with RFC3339 dates.
func (s *Server) CreateBooking(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	propertyID, err := idField(in, "propertyId")
	if err != nil {
		return nil, toStatus(err)
	}
	start, err := timeField(in, "startDate")
	if err != nil {
		return nil, toStatus(err)
	}
	end, err := timeField(in, "endDate")
	if err != nil {
		return nil, toStatus(err)
	}

	created, err := s.bookings.CreateBooking(ctx, booking.CreateBookingInput{
		StartDate:  start,
		EndDate:    end,
		PropertyID: propertyID,
		GuestID:    caller.UserID,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{"booking": toBookingMap(created)})
}

// DeleteBooking expects {id}; only the guest or the property owner may delete.
func (s *Server) DeleteBooking(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	id, err := idField(in, "id")
	if err != nil {
		return nil, toStatus(err)
	}

	existing, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	if existing.GuestID != caller.UserID {
		ownerID, err := s.bookings.GetOwnerID(ctx, existing.PropertyID)
		if err != nil {
			return nil, toStatus(err)
		}
		if ownerID != caller.UserID {
			return nil, toStatus(apperror.Unauthorized("unauthorized"))
		}
	}
	if err := s.bookings.DeleteBooking(ctx, id); err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{"deleted": id})
}

// GetOwner expects {propertyId} and needs no credentials.
func (s *Server) GetOwner(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	propertyID, err := idField(in, "propertyId")
	if err != nil {
		return nil, toStatus(err)
	}
	ownerID, err := s.bookings.GetOwnerID(ctx, propertyID)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{"ownerId": ownerID})
}

func (s *Server) caller(ctx context.Context) (*auth.Claims, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	for _, v := range md.Get("authorization") {
		if raw, ok := strings.CutPrefix(v, "Bearer "); ok {
			return s.tokens.Parse(strings.TrimSpace(raw))
		}
	}
	return nil, apperror.Unauthorized("missing bearer token")
}

func idField(in *structpb.Struct, name string) (int64, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return 0, apperror.BadRequest("%s is required", name)
	}
	n := v.GetNumberValue()
	if n <= 0 || n != math.Trunc(n) || n >= math.MaxInt64 {
		return 0, apperror.BadRequest("%s must be a positive integer", name)
	}
	return int64(n), nil
}

func timeField(in *structpb.Struct, name string) (time.Time, error) {
	raw := in.GetFields()[name].GetStringValue()
	if raw == "" {
		return time.Time{}, apperror.BadRequest("%s is required", name)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperror.BadRequest("%s must be an RFC3339 timestamp", name)
	}
	return t, nil
}

func toBookingMap(b *domain.Booking) map[string]any {
	out := map[string]any{
		"id":         b.ID,
		"propertyId": b.PropertyID,
		"guestId":    b.GuestID,
		"startDate":  b.StartDate.UTC().Format(time.RFC3339),
		"endDate":    b.EndDate.UTC().Format(time.RFC3339),
	}
	if b.Property != nil {
		out["property"] = toPropertyMap(b.Property)
	}
	return out
}

// toPropertyMap mirrors the snapshot the HTTP API embeds in a booking.
// structpb only accepts []any for lists.
func toPropertyMap(p *domain.Property) map[string]any {
	images := make([]any, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, map[string]any{
			"id":           img.ID,
			"key":          img.ImageKey,
			"isCoverImage": img.IsCoverImage,
		})
	}
	return map[string]any{
		"id":          p.ID,
		"title":       p.Title,
		"street":      p.Street,
		"city":        p.City,
		"state":       p.State,
		"zipcode":     p.Zipcode,
		"latitude":    p.Latitude,
		"longitude":   p.Longitude,
		"description": p.Description,
		"price":       p.Price,
		"ownerId":     p.OwnerID,
		"images":      images,
	}
}

func toStatus(err error) error {
	switch apperror.KindOf(err) {
	case apperror.KindBadRequest:
		return status.Error(codes.InvalidArgument, err.Error())
	case apperror.KindNotFound:
		return status.Error(codes.NotFound, err.Error())
	case apperror.KindUnauthorized:
		return status.Error(codes.Unauthenticated, err.Error())
	case apperror.KindForbidden:
		return status.Error(codes.PermissionDenied, err.Error())
	case apperror.KindUnavailable:
		return status.Error(codes.Unavailable, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return status.Error(codes.Unavailable, "service temporarily unavailable, retry")
	}
	return status.Error(codes.Internal, "internal error")
}
