package components

import (
	"fmt"
	"image"
	"image/color"

	"ice-extent/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	ImageAreaWidth  = 520
	ImageAreaHeight = 480
)

var (
	leftBackground  = color.RGBA{R: 0xBA, G: 0xBA, B: 0xBA, A: 0xFF}
	rightBackground = color.RGBA{R: 0xAB, G: 0xAB, B: 0xAB, A: 0xFF}
	placeholderInk  = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	errorInk        = color.RGBA{R: 160, G: 20, B: 20, A: 255}
)

type imagePanel struct {
	image      *canvas.Image
	header     *widget.Label
	background color.Color
	request    models.ImageRequest
	hasImage   bool
}

// ImageDisplay shows the two comparison panels side by side
type ImageDisplay struct {
	container *fyne.Container
	panels    [len(models.Panels)]*imagePanel
}

func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents()
	display.setupLayout()
	return display
}

func (id *ImageDisplay) createComponents() {
	backgrounds := [len(models.Panels)]color.Color{leftBackground, rightBackground}

	for _, p := range models.Panels {
		panel := &imagePanel{
			header:     widget.NewLabel(""),
			background: backgrounds[p],
		}
		panel.header.Alignment = fyne.TextAlignCenter

		panel.image = canvas.NewImageFromImage(
			NewPlaceholder(ImageAreaWidth, ImageAreaHeight, panel.background, placeholderInk, "Waiting for archive"),
		)
		panel.image.FillMode = canvas.ImageFillContain
		panel.image.ScaleMode = canvas.ImageScaleSmooth
		panel.image.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))

		id.panels[p] = panel
	}
}

func (id *ImageDisplay) setupLayout() {
	columns := make([]fyne.CanvasObject, 0, len(id.panels))
	for _, panel := range id.panels {
		columns = append(columns, container.NewBorder(
			panel.header, nil, nil, nil,
			container.NewStack(canvas.NewRectangle(panel.background), panel.image),
		))
	}
	id.container = container.NewGridWithColumns(len(columns), columns...)
}

// SetPanelImage replaces one panel's bitmap; the other panel is untouched
func (id *ImageDisplay) SetPanelImage(p models.Panel, req models.ImageRequest, img image.Image) {
	panel := id.panels[p]
	panel.request = req
	panel.hasImage = img != nil
	panel.header.SetText(headerText(req))
	if img == nil {
		img = NewPlaceholder(ImageAreaWidth, ImageAreaHeight, panel.background, placeholderInk, "No image")
	}
	panel.image.Image = img
	panel.image.Refresh()
}

// SetPanelLoading shows a loading placeholder while the frame is fetched
func (id *ImageDisplay) SetPanelLoading(p models.Panel, req models.ImageRequest) {
	panel := id.panels[p]
	panel.request = req
	panel.hasImage = false
	panel.header.SetText(headerText(req))
	panel.image.Image = NewPlaceholder(ImageAreaWidth, ImageAreaHeight, panel.background, placeholderInk,
		"Loading "+req.FileName()+"…")
	panel.image.Refresh()
}

// SetPanelError shows an error placeholder naming the failed frame
func (id *ImageDisplay) SetPanelError(p models.Panel, req models.ImageRequest, err error) {
	panel := id.panels[p]
	panel.request = req
	panel.hasImage = false
	panel.header.SetText(headerText(req))
	panel.image.Image = NewPlaceholder(ImageAreaWidth, ImageAreaHeight, panel.background, errorInk,
		"Image unavailable: "+req.FileName(), err.Error())
	panel.image.Refresh()
}

// HasImage returns true if the panel shows an archive frame
func (id *ImageDisplay) HasImage(p models.Panel) bool {
	return id.panels[p].hasImage
}

// Request returns the request the panel last rendered
func (id *ImageDisplay) Request(p models.Panel) models.ImageRequest {
	return id.panels[p].request
}

// Header returns the panel caption
func (id *ImageDisplay) Header(p models.Panel) string {
	return id.panels[p].header.Text
}

// Image returns the bitmap currently shown in the panel
func (id *ImageDisplay) Image(p models.Panel) image.Image {
	return id.panels[p].image.Image
}

func (id *ImageDisplay) GetContainer() *fyne.Container {
	return id.container
}

func headerText(req models.ImageRequest) string {
	return fmt.Sprintf("%d · %s", req.Year, req.FileName())
}
