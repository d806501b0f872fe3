package extract

import (
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

func extractHTML(data []byte) (string, error) {
	converter := md.NewConverter("", true, nil)
	out, err := converter.ConvertString(decodeText(data))
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return out, nil
}
