package internal

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"

	"github.com/rm-hull/prix-carburants-api/internal/config"
)

var (
	ErrDownload = errors.New("feed download failed")
	ErrArchive  = errors.New("invalid feed archive")
)

var zipMagic = []byte("PK")

// HTTPStatusError is returned when the remote server responds with a non-2xx status.
type HTTPStatusError struct {
	URL        string
	Status     string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status response from %s: %s", e.URL, e.Status)
}

type FeedClient interface {
	FetchArchive(ctx context.Context) ([]byte, error)
	ExtractXML(data []byte) (string, error)
}

type feedManager struct {
	url        string
	userAgent  string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	client     *http.Client
}

func NewFeedClient(cfg *config.Config) FeedClient {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &feedManager{
		url:        cfg.DataURL,
		userAgent:  cfg.UserAgent,
		timeout:    cfg.RequestTimeout,
		maxRetries: maxRetries,
		retryDelay: cfg.RetryDelay,
		client:     &http.Client{},
	}
}

// FetchArchive downloads the zipped feed, retrying with a constant delay on
// transport errors, bad statuses and bodies that are not zip archives.
func (mgr *feedManager) FetchArchive(ctx context.Context) ([]byte, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(mgr.retryDelay), uint64(mgr.maxRetries-1)),
		ctx,
	)

	attempt := 0
	data, err := backoff.RetryNotifyWithData(
		func() ([]byte, error) {
			attempt++
			log.Debug().Msgf("download attempt %d/%d", attempt, mgr.maxRetries)
			return mgr.get(ctx)
		},
		policy,
		func(err error, next time.Duration) {
			log.Warn().Err(err).Msgf("download attempt %d failed, retrying in %s", attempt, next)
		},
	)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "unable to download feed after %d attempts", attempt), ErrDownload)
	}

	log.Info().Msgf("downloaded feed archive (%d bytes)", len(data))
	return data, nil
}

func (mgr *feedManager) get(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, mgr.timeout)
	defer cancel()

	log.Debug().Msgf("GET %s", mgr.url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mgr.url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", mgr.userAgent)

	resp, err := mgr.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", mgr.url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close body: %v", err)
		}
	}()

	if resp.StatusCode > 299 {
		return nil, &HTTPStatusError{URL: mgr.url, Status: resp.Status, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if !bytes.HasPrefix(body, zipMagic) {
		return nil, errors.Newf("downloaded file is not a zip archive (%d bytes)", len(body))
	}
	return body, nil
}

// ExtractXML returns the text of the first .xml entry of the archive.
func (mgr *feedManager) ExtractXML(data []byte) (string, error) {
	return ExtractXML(data)
}

func ExtractXML(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "failed to open zip archive"), ErrArchive)
	}

	names := make([]string, 0, len(archive.File))
	var xmlFile *zip.File
	for _, file := range archive.File {
		names = append(names, file.Name)
		if xmlFile == nil && strings.HasSuffix(file.Name, ".xml") {
			xmlFile = file
		}
	}
	log.Debug().Strs("files", names).Msg("archive contents")

	if xmlFile == nil {
		return "", errors.Mark(errors.Newf("no xml file found in archive, files: %v", names), ErrArchive)
	}

	rc, err := xmlFile.Open()
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "failed to open %s", xmlFile.Name), ErrArchive)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			log.Printf("failed to close %s: %v", xmlFile.Name, err)
		}
	}()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "failed to read %s", xmlFile.Name), ErrArchive)
	}

	text, encoding, err := decodeText(raw)
	if err != nil {
		return "", errors.Mark(err, ErrArchive)
	}
	if len(text) == 0 {
		return "", errors.Mark(errors.Newf("%s is empty", xmlFile.Name), ErrArchive)
	}

	log.Info().Str("file", xmlFile.Name).Str("encoding", encoding).Msgf("extracted xml (%d characters)", utf8.RuneCountInString(text))
	return text, nil
}

type textDecoder struct {
	name   string
	decode func([]byte) (string, error)
}

// tried in order, the first one that succeeds wins
var textDecoders = []textDecoder{
	{name: "utf-8", decode: decodeUTF8},
	{name: "iso-8859-1", decode: decodeCharmap(charmap.ISO8859_1)},
	{name: "windows-1252", decode: decodeCharmap(charmap.Windows1252)},
}

func decodeText(raw []byte) (string, string, error) {
	for _, decoder := range textDecoders {
		text, err := decoder.decode(raw)
		if err == nil {
			return text, decoder.name, nil
		}
		log.Debug().Err(err).Msgf("xml is not %s", decoder.name)
	}
	return "", "", errors.New("unable to decode xml with any supported encoding")
}

func decodeUTF8(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", errors.New("invalid utf-8 sequence")
	}
	return string(raw), nil
}

func decodeCharmap(cm *charmap.Charmap) func([]byte) (string, error) {
	return func(raw []byte) (string, error) {
		out, err := cm.NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}
