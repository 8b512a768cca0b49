// internal/ssh/transfer.go
package ssh

import (
	"context"
	"fmt"
	"io"
	"os"

	"customTools/internal/utils"

	scp "github.com/bramvdbogaerde/go-scp"
	"github.com/pkg/sftp"
)

// Download methods understood by DownloadFile.
const (
	MethodSFTP = "sftp"
	MethodSCP  = "scp"
)

// DownloadFile copies remotePath from the switch to localPath over the
// pooled connection and returns the number of bytes written.
func DownloadFile(ctx context.Context, conn Conn, method, remotePath, localPath string) (int64, error) {
	c, ok := conn.(*SSHClient)
	if !ok {
		return 0, fmt.Errorf("connection does not support file transfer")
	}

	switch method {
	case MethodSFTP:
		return downloadSFTP(c, utils.ToSFTPPath(remotePath), localPath)
	case MethodSCP:
		return downloadSCP(ctx, c, remotePath, localPath)
	default:
		return 0, fmt.Errorf("unknown transfer method %q", method)
	}
}

func downloadSFTP(c *SSHClient, remotePath, localPath string) (int64, error) {
	client, err := sftp.NewClient(c.Client())
	if err != nil {
		return 0, fmt.Errorf("failed to create SFTP client: %w", err)
	}
	defer client.Close()

	srcFile, err := client.Open(remotePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open remote file: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(localPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create local file: %w", err)
	}
	defer dstFile.Close()

	written, err := io.Copy(dstFile, srcFile)
	if err != nil {
		return written, fmt.Errorf("error copying remote file: %w", err)
	}
	if err := dstFile.Sync(); err != nil {
		return written, fmt.Errorf("failed to sync local file: %w", err)
	}
	return written, nil
}

func downloadSCP(ctx context.Context, c *SSHClient, remotePath, localPath string) (int64, error) {
	client, err := scp.NewClientBySSH(c.Client())
	if err != nil {
		return 0, fmt.Errorf("failed to create SCP client: %w", err)
	}
	// client.Close would tear down the pooled connection, so it is not called.

	dstFile, err := os.Create(localPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create local file: %w", err)
	}
	defer dstFile.Close()

	if err := client.CopyFromRemote(ctx, dstFile, remotePath); err != nil {
		return 0, fmt.Errorf("error copying remote file: %w", err)
	}

	info, err := dstFile.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat local file: %w", err)
	}
	return info.Size(), nil
}
