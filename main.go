package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quickdrop/quickdrop-go/client"
	"github.com/quickdrop/quickdrop-go/session"
	"github.com/quickdrop/quickdrop-go/tool"
	"github.com/quickdrop/quickdrop-go/types"
)

func main() {
	flags := tool.SetFlags()
	tool.InitLogger()
	tool.SetDebug(flags.Log == "debug")

	cfg, err := tool.LoadClientConfig(flags.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	if flags.UseServerURL != "" {
		cfg.ServerURL = flags.UseServerURL
	}
	if flags.UseOneShot {
		cfg.OneShot = true
	}
	if flags.UseStream {
		cfg.Stream = true
	}
	if flags.UseInsecureTLS {
		cfg.InsecureTLS = true
	}
	if flags.UseTTL != "" {
		value, unit, err := parseTTLFlag(flags.UseTTL)
		if err != nil {
			tool.DefaultLogger.Fatalf("%v", err)
		}
		cfg.TTLValue = value
		cfg.TTLUnit = unit
	}

	probeServer(cfg.ServerURL)

	api := client.New(cfg.ServerURL, cfg.InsecureTLS)
	ctrl := session.New(api, &terminalPrompt{}, &logAlerter{}, nil, cfg)

	ctx := context.Background()
	if err := ctrl.Start(ctx); err != nil {
		os.Exit(1)
	}
	if cfg.Login != "" || cfg.Password != "" {
		ctrl.SetCredentials(cfg.Login, cfg.Password)
	}
	ctrl.SetTTL(cfg.TTLValue, cfg.TTLUnit)
	if flags.UseComments != "" {
		ctrl.SetComments(flags.UseComments)
	}

	switch {
	case flags.RemoveUpload != "":
		removeUpload(ctx, ctrl, flags.RemoveUpload, flags.UploadToken)
	case flags.ShowUpload != "":
		showUpload(ctx, ctrl, flags.ShowUpload, flags.UploadToken)
	default:
		upload(ctx, ctrl, flags)
	}
}

func upload(ctx context.Context, ctrl *session.Controller, flags tool.Flags) {
	paths := flagArgsOrExit(flags)
	sources := make([]session.FileSource, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			tool.DefaultLogger.Fatalf("%v", err)
		}
		if info.IsDir() {
			tool.DefaultLogger.Fatalf("%s is a directory", path)
		}
		path := path
		sources = append(sources, session.FileSource{
			Name: info.Name(),
			Size: info.Size(),
			Type: tool.DetectFileType(info.Name()),
			Open: func() (io.ReadCloser, error) { return os.Open(path) },
		})
	}
	ctrl.SelectFiles(sources...)

	if err := ctrl.Submit(ctx, flags.UseEmptyUpload); err != nil {
		os.Exit(1)
	}
	ctrl.WaitTransfers()

	printUpload(ctrl, flags)
}

func removeUpload(ctx context.Context, ctrl *session.Controller, id, uploadToken string) {
	if err := ctrl.Load(ctx, id, uploadToken); err != nil {
		os.Exit(1)
	}
	if err := ctrl.RemoveSession(ctx); err != nil {
		os.Exit(1)
	}
	fmt.Printf("Upload %s removed\n", id)
}

func showUpload(ctx context.Context, ctrl *session.Controller, id, uploadToken string) {
	if err := ctrl.Load(ctx, id, uploadToken); err != nil {
		os.Exit(1)
	}
	printUpload(ctrl, tool.Flags{})
}

func printUpload(ctrl *session.Controller, flags tool.Flags) {
	upload := ctrl.Upload()
	if upload.ID == "" {
		return
	}
	fmt.Printf("Upload %s (%s)\n", upload.ID, ctrl.ExpirationString())

	for _, file := range ctrl.Files() {
		line := fmt.Sprintf("  %s (%s)", file.FileName, tool.HumanReadableSize(file.FileSize, 2))
		if file.Downloadable {
			if fileURL, err := ctrl.FileURL(file.Reference, false); err == nil {
				line += " " + fileURL
			}
		} else {
			line += fmt.Sprintf(" [%s]", file.Status)
		}
		fmt.Println(line)
	}

	if archiveURL, err := ctrl.ArchiveURL(false); err == nil && len(ctrl.Files()) > 1 {
		fmt.Printf("Archive: %s\n", archiveURL)
	}
	if pageURL, err := ctrl.PageURL(upload.UploadToken != ""); err == nil {
		fmt.Printf("Page: %s\n", pageURL)
		if flags.QRCodeOutput != "" {
			writeQRCode(flags.QRCodeOutput, pageURL)
		}
	}
}

func writeQRCode(path, target string) {
	png, err := tool.RenderQRCode(target, 0)
	if err != nil {
		tool.DefaultLogger.Errorf("Failed to render QR code: %v", err)
		return
	}
	path = tool.NextAvailablePath(path)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		tool.DefaultLogger.Errorf("Failed to write QR code: %v", err)
		return
	}
	fmt.Printf("QR code written to %s\n", path)
}

func flagArgsOrExit(flags tool.Flags) []string {
	args := flag.Args()
	if len(args) == 0 && !flags.UseEmptyUpload {
		tool.DefaultLogger.Fatalf("No file to upload, pass file paths as arguments or use -empty")
	}
	return args
}

// parseTTLFlag parses "30 days", "12 hours" or "unlimited".
func parseTTLFlag(input string) (value int, unit string, err error) {
	fields := strings.Fields(input)
	if len(fields) == 1 && fields[0] == "unlimited" {
		return -1, "unlimited", nil
	}
	if len(fields) != 2 {
		return 0, "", fmt.Errorf("invalid ttl %q, expected e.g. '30 days' or 'unlimited'", input)
	}
	value, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, "", fmt.Errorf("invalid ttl value %q", fields[0])
	}
	return value, fields[1], nil
}

func probeServer(serverURL string) {
	u, err := url.Parse(serverURL)
	if err != nil || u.Host == "" {
		tool.DefaultLogger.Fatalf("invalid server URL: %s", serverURL)
	}
	if !tool.QuickProbe(u.Hostname(), 2*time.Second) {
		tool.DefaultLogger.Warnf("Server %s did not answer ping, trying anyway", u.Hostname())
	}
}

// terminalPrompt collects credentials interactively.
type terminalPrompt struct{}

func (p *terminalPrompt) CollectPassword(ctx context.Context) (session.Credentials, error) {
	login, err := readLine("Login: ")
	if err != nil {
		return session.Credentials{}, err
	}
	password, err := readLine("Password: ")
	if err != nil {
		return session.Credentials{}, err
	}
	return session.Credentials{Login: login, Password: password}, nil
}

func (p *terminalPrompt) CollectToken(ctx context.Context) (string, error) {
	return readLine("One-time token: ")
}

func readLine(promptText string) (string, error) {
	fmt.Print(promptText)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// logAlerter surfaces session alerts on the logger.
type logAlerter struct{}

func (a *logAlerter) Alert(err *types.HTTPError) {
	tool.DefaultLogger.Errorf("%s", err.Error())
}
