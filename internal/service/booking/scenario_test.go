package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/repository"
	"github.com/Domenick1991/sejour/internal/repository/sqlite"
	"github.com/Domenick1991/sejour/internal/service/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memdb(t *testing.T) repository.Set {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlite.NewSet(db)
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

type fixture struct {
	set      repository.Set
	service  *booking.BookingService
	owner    *domain.User
	guest    *domain.User
	property *domain.Property
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	set := memdb(t)

	owner := &domain.User{Email: "u1@example.com", PasswordHash: "x", FirstName: "Una", LastName: "Owner"}
	guest := &domain.User{Email: "u2@example.com", PasswordHash: "x", FirstName: "Gus", LastName: "Guest"}
	require.NoError(t, set.Users.Create(ctx, owner))
	require.NoError(t, set.Users.Create(ctx, guest))

	property := &domain.Property{Title: "P1", Street: "1 Main", City: "Town", State: "CA", Zipcode: "90000",
		Latitude: "0", Longitude: "0", Description: "seaside", Price: 120, OwnerID: owner.ID}
	require.NoError(t, set.Properties.Create(ctx, property))
	require.NoError(t, set.Images.Create(ctx, &domain.Image{ImageKey: "cover.png", PropertyID: property.ID, IsCoverImage: true}))

	return fixture{
		set:      set,
		service:  booking.NewBookingService(set.Bookings, set.Properties, set.Tx),
		owner:    owner,
		guest:    guest,
		property: property,
	}
}

func TestScenario_BookTwiceThenSelfBook(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	input := booking.CreateBookingInput{
		StartDate:  ts("2022-12-30T05:00:00Z"),
		EndDate:    ts("2022-12-31T05:00:00Z"),
		PropertyID: f.property.ID,
		GuestID:    f.guest.ID,
	}

	b, err := f.service.CreateBooking(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, f.guest.ID, b.GuestID)

	_, err = f.service.CreateBooking(ctx, input)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	input.GuestID = f.owner.ID
	input.StartDate, input.EndDate = ts("2024-01-01T00:00:00Z"), ts("2024-01-02T00:00:00Z")
	_, err = f.service.CreateBooking(ctx, input)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestBoundaryInclusiveOverlap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.service.CreateBooking(ctx, booking.CreateBookingInput{
		StartDate: ts("2022-12-30T00:00:00Z"), EndDate: ts("2022-12-31T00:00:00Z"), PropertyID: f.property.ID, GuestID: f.guest.ID,
	})
	require.NoError(t, err)

	conflicting := [][2]string{
		{"2022-12-30T00:00:00Z", "2022-12-31T00:00:00Z"},
		{"2022-12-29T00:00:00Z", "2022-12-31T00:00:00Z"},
		{"2022-12-30T00:00:00Z", "2023-01-01T00:00:00Z"},
		{"2022-12-31T00:00:00Z", "2023-01-01T00:00:00Z"},
	}
	for _, r := range conflicting {
		_, err := f.service.CreateBooking(ctx, booking.CreateBookingInput{
			StartDate: ts(r[0]), EndDate: ts(r[1]), PropertyID: f.property.ID, GuestID: f.guest.ID,
		})
		assert.ErrorIs(t, err, apperror.ErrBadRequest, "%s..%s", r[0], r[1])
	}

	b, err := f.service.CreateBooking(ctx, booking.CreateBookingInput{
		StartDate: ts("2023-01-02T00:00:00Z"), EndDate: ts("2023-01-03T00:00:00Z"), PropertyID: f.property.ID, GuestID: f.guest.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	require.NotNil(t, b.Property)
	assert.Equal(t, f.property.ID, b.Property.ID)
	assert.Equal(t, f.owner.ID, b.Property.OwnerID)
	require.Len(t, b.Property.Images, 1)
	assert.Equal(t, "cover.png", b.Property.Images[0].ImageKey)
}

func TestCreateBooking_UnknownProperty(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.CreateBooking(context.Background(), booking.CreateBookingInput{
		StartDate: ts("2023-01-02T00:00:00Z"), EndDate: ts("2023-01-03T00:00:00Z"), PropertyID: 999, GuestID: f.guest.ID,
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteBooking_RemovesRow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b, err := f.service.CreateBooking(ctx, booking.CreateBookingInput{
		StartDate: ts("2023-01-02T00:00:00Z"), EndDate: ts("2023-01-03T00:00:00Z"), PropertyID: f.property.ID, GuestID: f.guest.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteBooking(ctx, b.ID))
	_, err = f.service.GetBooking(ctx, b.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.ErrorIs(t, f.service.DeleteBooking(ctx, 0), apperror.ErrNotFound)

	again, err := f.service.CreateBooking(ctx, booking.CreateBookingInput{
		StartDate: ts("2023-01-02T00:00:00Z"), EndDate: ts("2023-01-03T00:00:00Z"), PropertyID: f.property.ID, GuestID: f.guest.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, b.ID, again.ID)
}
