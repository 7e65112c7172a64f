package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"github.com/dmitrijs2005/healthcal/internal/models"
	"github.com/dmitrijs2005/healthcal/internal/netx"
)

// Photo transfer seams.
var (
	readFile = os.ReadFile
	uploadFn = netx.UploadToPresignedURL
)

const moodPrompt = "Mood (great, good, okay, bad, terrible)"

// Diary works on the selected day's entry:
//
//	diary          show it
//	diary edit     write or rewrite it
//	diary delete   remove it
//	diary photo [file]  upload file, or print an upload URL, and attach it
//	diary photos   print download URLs of attached photos
func (a *App) Diary(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}
	date := a.view.Selected()

	switch sub {
	case "show":
		d, err := a.diary.Get(ctx, a.userID, date)
		if errors.Is(err, common.ErrNotFound) {
			a.printf("No diary entry on %s. Use 'diary edit' to write one.\n", date)
			return nil
		}
		if err != nil {
			return err
		}
		a.writeDiary(*d)
		return nil
	case "edit":
		return a.editDiary(ctx, date)
	case "delete":
		if err := a.diary.Delete(ctx, a.userID, date); err != nil {
			return err
		}
		a.printf("Diary entry on %s deleted.\n", date)
		return a.Render(ctx)
	case "photo":
		path := ""
		if len(args) > 1 {
			path = args[1]
		}
		return a.uploadPhoto(ctx, date, path)
	case "photos":
		return a.listPhotos(ctx, date)
	}
	return fmt.Errorf("%w: usage: diary [edit|delete|photo|photos]", common.ErrValidation)
}

func (a *App) editDiary(ctx context.Context, date string) error {
	entry := models.DiaryEntry{UserID: a.userID, Date: date, Mood: models.MoodOkay}
	existing, err := a.diary.Get(ctx, a.userID, date)
	switch {
	case err == nil:
		entry = *existing
	case !errors.Is(err, common.ErrNotFound):
		return err
	}

	mood, err := GetWithDefault(a.reader, moodPrompt, string(entry.Mood), a.out)
	if err != nil {
		return err
	}
	entry.Mood = models.Mood(strings.ToLower(mood))

	content, err := GetMultiline(a.reader, "How was the day?", a.out)
	if err != nil {
		return err
	}
	if content != "" {
		entry.Content = content
	}
	tags, err := GetWithDefault(a.reader, "Tags (comma separated)", strings.Join(entry.Tags, ", "), a.out)
	if err != nil {
		return err
	}
	entry.Tags = splitList(tags)
	acts, err := GetWithDefault(a.reader, "Activities (comma separated)", strings.Join(entry.Activities, ", "), a.out)
	if err != nil {
		return err
	}
	entry.Activities = splitList(acts)

	saved, err := a.diary.Save(ctx, entry)
	if err != nil {
		return err
	}
	a.printf("Diary entry on %s saved.\n", saved.Date)
	return a.Render(ctx)
}

// uploadPhoto attaches a photo to the diary day. With a file the bytes are
// sent first and the key is attached only after storage accepted them;
// without one the user gets the URL to PUT to.
func (a *App) uploadPhoto(ctx context.Context, date, path string) error {
	if _, err := a.diary.Get(ctx, a.userID, date); err != nil {
		return err
	}
	var body []byte
	if path != "" {
		b, err := readFile(path)
		if err != nil {
			return fmt.Errorf("read photo: %w", err)
		}
		body = b
	}

	key, url, err := a.photos.PresignUpload(ctx, a.userID, date)
	if err != nil {
		return err
	}
	if body != nil {
		if err := uploadFn(ctx, url, body); err != nil {
			return fmt.Errorf("upload photo: %w", err)
		}
	}
	if err := a.diary.AttachPhoto(ctx, a.userID, date, key); err != nil {
		return err
	}

	if body != nil {
		a.printf("Photo uploaded (%d bytes).\n", len(body))
	} else {
		a.printf("Upload the photo with an HTTP PUT to:\n%s\n", url)
	}
	return nil
}

func (a *App) listPhotos(ctx context.Context, date string) error {
	d, err := a.diary.Get(ctx, a.userID, date)
	if err != nil {
		return err
	}
	if len(d.Photos) == 0 {
		a.printf("No photos on %s.\n", date)
		return nil
	}
	for i, key := range d.Photos {
		url, err := a.photos.PresignDownload(ctx, a.userID, key)
		if err != nil {
			return err
		}
		a.printf("%d. %s\n", i+1, url)
	}
	return nil
}
