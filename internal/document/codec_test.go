package document

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Fernando9200/sistema-lembretes/internal/errs"
	"github.com/Fernando9200/sistema-lembretes/internal/model"
)

func TestReminders_RoundTrip(t *testing.T) {
	c := model.NewCollection[model.Reminder]("user-1")
	r := model.NewReminder("Pay electricity bill", "before friday")
	r.IsCompleted = true
	c.Records = append(c.Records, r)

	raw, err := EncodeReminders(c)
	require.NoError(t, err)

	back, err := DecodeReminders(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", back.UserID)
	require.Len(t, back.Records, 1)

	got := back.Records[0]
	require.Equal(t, r.ID, got.ID)
	require.Equal(t, r.Title, got.Title)
	require.Equal(t, r.Description, got.Description)
	require.Equal(t, r.IsCompleted, got.IsCompleted)
	// Only millisecond truncation may differ.
	require.Equal(t, r.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())
}

func TestSavedItems_RoundTrip_AllVariants(t *testing.T) {
	c := model.NewCollection[model.SavedItem]("user-1")
	text := model.NewTextItem("note", "plain")
	link := model.NewLinkItem("site", "", "https://example.com")
	file := model.NewFileItem("doc", "", model.FileData{
		URL: "https://cdn.example.com/a.pdf", PublicID: "a", FileName: "a.pdf",
		FileSize: 42, FileType: "application/pdf", ResourceType: model.ResourceRaw,
	})
	c.Records = append(c.Records, text, link, file)

	raw, err := EncodeSavedItems(c)
	require.NoError(t, err)

	back, err := DecodeSavedItems(raw)
	require.NoError(t, err)
	require.Len(t, back.Records, 3)

	require.Equal(t, model.ItemText, back.Records[0].Type)
	require.Empty(t, back.Records[0].URL)
	require.Nil(t, back.Records[0].File)

	require.Equal(t, "https://example.com", back.Records[1].URL)
	require.Nil(t, back.Records[1].File)

	require.Empty(t, back.Records[2].URL)
	require.NotNil(t, back.Records[2].File)
	require.Equal(t, *file.File, *back.Records[2].File)
}

func TestSavedItems_AbsentOptionalsWrittenAsNull(t *testing.T) {
	c := model.NewCollection[model.SavedItem]("user-1")
	c.Records = append(c.Records, model.NewTextItem("note", "plain"))

	raw, err := EncodeSavedItems(c)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	items := doc["items"].([]any)
	first := items[0].(map[string]any)

	v, present := first["url"]
	require.True(t, present, "url key must be written, not omitted")
	require.Nil(t, v)
	v, present = first["fileData"]
	require.True(t, present, "fileData key must be written, not omitted")
	require.Nil(t, v)
}

func TestSavedItems_ClearedURLRoundTripsToAbsent(t *testing.T) {
	// A link item whose url was edited to "" stores null and reloads absent.
	c := model.NewCollection[model.SavedItem]("user-1")
	it := model.NewLinkItem("site", "", "https://example.com")
	it.URL = ""
	c.Records = append(c.Records, it)

	raw, err := EncodeSavedItems(c)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	first := doc["items"].([]any)[0].(map[string]any)
	require.Nil(t, first["url"])

	back, err := DecodeSavedItems(raw)
	require.NoError(t, err)
	require.Empty(t, back.Records[0].URL)
}

func TestDecode_MissingTimestampsSubstituteNow(t *testing.T) {
	before := time.Now()
	back, err := DecodeReminders([]byte(`{"userId":"u","reminders":[{"id":"1","title":"t"}]}`))
	require.NoError(t, err)
	require.False(t, back.LastUpdated.Before(before))
	require.False(t, back.Records[0].CreatedAt.Before(before))

	items, err := DecodeSavedItems([]byte(`{"userId":"u","items":[]}`))
	require.NoError(t, err)
	require.False(t, items.LastUpdated.Before(before))
}

func TestDecode_BadPayload(t *testing.T) {
	_, err := DecodeReminders([]byte(`{"`))
	require.Error(t, err)
	_, err = DecodeSavedItems([]byte(`[]`))
	require.Error(t, err)
}

func TestMemStore_GetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()

	_, err := m.Get(ctx, KindReminders, "u1")
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, m.Set(ctx, KindReminders, "u1", []byte(`{"a":1}`)))
	got, err := m.Get(ctx, KindReminders, "u1")
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(got))

	// Kinds are namespaced independently.
	_, err = m.Get(ctx, KindSavedItems, "u1")
	require.ErrorIs(t, err, errs.ErrNotFound)

	// Returned slice is a copy.
	got[0] = 'X'
	again, err := m.Get(ctx, KindReminders, "u1")
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(again))
}
