package domain

// PointReader интерфейс для чтения точек из файла
type PointReader interface {
	ReadPoints(filename string) ([]Point, error)
}

// PointWriter интерфейс для записи оболочки
type PointWriter interface {
	WritePoints(filename string, points []Point) error
}

// ConfigReader интерфейс для чтения конфигурации
type ConfigReader interface {
	ReadConfig(path string) (*Config, error)
}
