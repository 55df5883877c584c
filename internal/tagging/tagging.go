// Package tagging embeds song metadata and cover art into downloaded audio
// files so they stay usable outside the app.
package tagging

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"

	"github.com/reewhy/musicplayer/internal/domain"
)

// TagFile writes the song's metadata tags to the audio file at path. The
// artwork bytes are optional; when present they are embedded as the front
// cover.
func TagFile(path string, song *domain.Song, artwork []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		return tagFLAC(path, song, artwork)
	case ".mp3":
		return tagMP3(path, song, artwork)
	default:
		return fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
	}
}

// tagFLAC replaces the Vorbis comment and picture blocks of a FLAC file,
// keeping every other metadata block untouched.
func tagFLAC(path string, song *domain.Song, artwork []byte) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to parse FLAC file: %w", err)
	}

	cmt := newVorbisComment(song)

	var kept []*flac.MetaDataBlock
	for _, block := range f.Meta {
		if block.Type == flac.VorbisComment || block.Type == flac.Picture {
			continue
		}
		kept = append(kept, block)
	}
	cmtBlock := cmt.Marshal()
	kept = append(kept, &cmtBlock)

	if len(artwork) > 0 {
		pic, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Front Cover", artwork, detectMIME(artwork))
		if err != nil {
			return fmt.Errorf("failed to build picture block: %w", err)
		}
		picBlock := pic.Marshal()
		kept = append(kept, &picBlock)
	}

	f.Meta = kept
	if err := f.Save(path); err != nil {
		return fmt.Errorf("failed to save FLAC file: %w", err)
	}
	return nil
}

func newVorbisComment(song *domain.Song) *flacvorbis.MetaDataBlockVorbisComment {
	cmt := flacvorbis.New()
	add := func(name, value string) {
		if value != "" {
			_ = cmt.Add(name, value)
		}
	}
	add(flacvorbis.FIELD_TITLE, song.Title)
	add(flacvorbis.FIELD_ARTIST, song.Artist)
	add(flacvorbis.FIELD_ALBUM, song.AlbumTitle)
	add(flacvorbis.FIELD_GENRE, song.Genre)
	add(flacvorbis.FIELD_DATE, song.ReleaseDate)
	add(flacvorbis.FIELD_ISRC, song.ISRC)
	add("LABEL", song.Label)
	add("VERSION", song.Version)
	add("BARCODE", song.UPC)
	return cmt
}

// tagMP3 writes ID3v2.4 tags.
func tagMP3(path string, song *domain.Song, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(4)

	if song.Title != "" {
		tag.SetTitle(song.Title)
	}
	if song.Artist != "" {
		tag.SetArtist(song.Artist)
	}
	if song.AlbumTitle != "" {
		tag.SetAlbum(song.AlbumTitle)
	}
	if song.Genre != "" {
		tag.SetGenre(song.Genre)
	}
	if song.ReleaseDate != "" {
		tag.AddTextFrame(tag.CommonID("Release time"), tag.DefaultEncoding(), song.ReleaseDate)
	}
	if song.Label != "" {
		tag.AddTextFrame(tag.CommonID("Publisher"), tag.DefaultEncoding(), song.Label)
	}
	if song.ISRC != "" {
		tag.AddTextFrame(tag.CommonID("ISRC"), tag.DefaultEncoding(), song.ISRC)
	}
	if song.UPC != "" {
		tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
			Encoding:    id3v2.EncodingUTF8,
			Description: "BARCODE",
			Value:       song.UPC,
		})
	}

	if len(artwork) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    detectMIME(artwork),
			PictureType: id3v2.PTFrontCover,
			Description: "Front Cover",
			Picture:     artwork,
		})
	}

	return tag.Save()
}

// detectMIME sniffs the image type so PNG covers are not labelled
// image/jpeg.
func detectMIME(data []byte) string {
	mime := http.DetectContentType(data)
	if idx := strings.Index(mime, ";"); idx != -1 {
		mime = strings.TrimSpace(mime[:idx])
	}
	return mime
}
